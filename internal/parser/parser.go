// Package parser turns Quil program text into IR instructions.
//
// The parser consumes the token stream produced by lexer.Lex. Errors are
// collected per instruction; after an error the parser resynchronizes at the
// next line so that one pass reports every malformed instruction. Callers
// that need all-or-nothing behavior use ParseString, which never returns
// instructions alongside an error.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/quilt/internal/ir"
	"github.com/roach88/quilt/internal/lexer"
)

// ---------------------------------------------------------------------------
// ParseError
// ---------------------------------------------------------------------------

// ParseError represents a single error found while lexing or parsing.
type ParseError struct {
	Message string
	Line    int
	Column  int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d, col %d: %s", e.Line, e.Column, e.Message)
}

// ---------------------------------------------------------------------------
// Parser
// ---------------------------------------------------------------------------

// Parser holds the state for a single parse pass over a token stream.
type Parser struct {
	tokens []lexer.Token
	pos    int
	errors []ParseError
}

// Parse parses a token slice (as produced by lexer.Lex) into instructions in
// source order, plus any parse errors collected.
func Parse(tokens []lexer.Token) ([]ir.Instruction, []ParseError) {
	p := &Parser{tokens: tokens}
	instrs := p.parseProgram()
	return instrs, p.errors
}

// ParseString lexes and parses input. On failure it returns the first error
// as a *ParseError and no instructions.
func ParseString(input string) ([]ir.Instruction, error) {
	tokens, lexErrs := lexer.Lex(input)
	if len(lexErrs) > 0 {
		le := lexErrs[0]
		return nil, &ParseError{
			Message: fmt.Sprintf("%s (got %q)", le.Message, le.Lexeme),
			Line:    le.Line,
			Column:  le.Column,
		}
	}
	instrs, errs := Parse(tokens)
	if len(errs) > 0 {
		return nil, &errs[0]
	}
	return instrs, nil
}

// ---------------------------------------------------------------------------
// Token helpers
// ---------------------------------------------------------------------------

// peek returns the current token without consuming it.
func (p *Parser) peek() lexer.Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return lexer.Token{Type: lexer.EOF}
}

// peekAt returns the token at a given offset from the current position.
func (p *Parser) peekAt(offset int) lexer.Token {
	idx := p.pos + offset
	if idx >= 0 && idx < len(p.tokens) {
		return p.tokens[idx]
	}
	return lexer.Token{Type: lexer.EOF}
}

// advance consumes and returns the current token.
func (p *Parser) advance() lexer.Token {
	tok := p.peek()
	if tok.Type != lexer.EOF {
		p.pos++
	}
	return tok
}

// check returns true if the current token has the given type.
func (p *Parser) check(typ string) bool {
	return p.peek().Type == typ
}

// checkKeyword returns true if the current token is the identifier kw.
func (p *Parser) checkKeyword(kw string) bool {
	tok := p.peek()
	return tok.Type == lexer.IDENT && tok.Value == kw
}

// match consumes the current token if it matches any of the given types.
func (p *Parser) match(types ...string) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

// expect consumes the current token if it matches typ; otherwise it records
// an error and returns the current token WITHOUT advancing.
func (p *Parser) expect(typ string, msg string) (lexer.Token, bool) {
	if p.check(typ) {
		return p.advance(), true
	}
	tok := p.peek()
	p.addError(tok, fmt.Sprintf("%s (got %s)", msg, tok))
	return tok, false
}

// addError appends a ParseError at the given token's location.
func (p *Parser) addError(tok lexer.Token, msg string) {
	p.errors = append(p.errors, ParseError{
		Message: msg,
		Line:    tok.Line,
		Column:  tok.Column,
	})
}

// synchronize skips to the start of the next line.
func (p *Parser) synchronize() {
	for !p.check(lexer.EOF) && !p.check(lexer.NEWLINE) {
		p.advance()
	}
	p.match(lexer.NEWLINE)
}

// endOfInstruction consumes the NEWLINE terminating an instruction.
func (p *Parser) endOfInstruction() bool {
	if p.match(lexer.NEWLINE) || p.check(lexer.EOF) {
		return true
	}
	tok := p.peek()
	p.addError(tok, fmt.Sprintf("expected end of instruction (got %s)", tok))
	return false
}

// =========================================================================
// Top-level parsing
// =========================================================================

func (p *Parser) parseProgram() []ir.Instruction {
	var instrs []ir.Instruction

	for !p.check(lexer.EOF) {
		if p.match(lexer.NEWLINE) {
			continue
		}
		if p.check(lexer.INDENT) {
			p.addError(p.peek(), "unexpected indentation outside of a DEFCAL body")
			p.synchronize()
			continue
		}

		before := len(p.errors)
		instr := p.parseInstruction()
		if len(p.errors) > before {
			p.synchronize()
			continue
		}
		if isDefinition(instr) {
			// Definitions consume their own body and trailing line breaks.
			instrs = append(instrs, instr)
			continue
		}
		if !p.endOfInstruction() {
			p.synchronize()
			continue
		}
		instrs = append(instrs, instr)
	}
	return instrs
}

func isDefinition(instr ir.Instruction) bool {
	switch instr.(type) {
	case *ir.Calibration, *ir.MeasureCalibration, *ir.FrameDefinition, *ir.WaveformDefinition:
		return true
	}
	return false
}

// parseInstruction dispatches on the leading keyword. Anything that is not a
// known keyword is a gate application.
func (p *Parser) parseInstruction() ir.Instruction {
	tok := p.peek()
	if tok.Type != lexer.IDENT {
		p.addError(tok, fmt.Sprintf("expected instruction (got %s)", tok))
		return nil
	}

	switch tok.Value {
	case "DECLARE":
		return p.parseDeclare()
	case "DEFCAL":
		return p.parseDefcal()
	case "DEFFRAME":
		return p.parseDefframe()
	case "DEFWAVEFORM":
		return p.parseDefwaveform()
	case "MEASURE":
		return p.parseMeasure()
	case "RESET":
		return p.parseReset()
	case "FENCE":
		return p.parseFence()
	case "NONBLOCKING":
		return p.parseNonBlocking()
	case "PULSE":
		return p.parsePulse(false)
	case "CAPTURE":
		return p.parseCapture(false)
	case "RAW-CAPTURE":
		return p.parseRawCapture(false)
	case "DELAY":
		return p.parseDelay()
	case "SWAP-PHASES":
		return p.parseSwapPhases()
	case "PRAGMA":
		return p.parsePragma()
	case "HALT":
		p.advance()
		return &ir.Halt{}
	case "NOP":
		p.advance()
		return &ir.Nop{}
	}
	if op := ir.FrameOperation(tok.Value); ir.ValidFrameOperations[op] {
		return p.parseFrameUpdate(op)
	}
	return p.parseGate()
}

// =========================================================================
// Instructions
// =========================================================================

// parseGate parses MODIFIER* NAME [(expr, ...)] qubit+.
func (p *Parser) parseGate() ir.Instruction {
	modifiers := p.parseModifiers()

	nameTok, ok := p.expect(lexer.IDENT, "expected gate name")
	if !ok {
		return nil
	}
	if ir.Keywords[nameTok.Value] {
		p.addError(nameTok, fmt.Sprintf("unsupported instruction %s", nameTok.Value))
		return nil
	}

	params := p.parseOptionalExpressionList()
	qubits := p.parseQubits()
	if len(qubits) == 0 {
		p.addError(p.peek(), fmt.Sprintf("gate %s requires at least one qubit", nameTok.Value))
		return nil
	}

	return &ir.Gate{Name: nameTok.Value, Parameters: params, Qubits: qubits, Modifiers: modifiers}
}

func (p *Parser) parseModifiers() []ir.GateModifier {
	var modifiers []ir.GateModifier
	for p.check(lexer.IDENT) && ir.ValidGateModifiers[ir.GateModifier(p.peek().Value)] {
		modifiers = append(modifiers, ir.GateModifier(p.advance().Value))
	}
	return modifiers
}

// parseDeclare parses DECLARE name TYPE[length] [SHARING name (OFFSET n TYPE)*].
func (p *Parser) parseDeclare() ir.Instruction {
	p.advance() // DECLARE

	nameTok, ok := p.expect(lexer.IDENT, "expected memory region name")
	if !ok {
		return nil
	}
	dataType, ok := p.parseScalarType()
	if !ok {
		return nil
	}
	length := uint64(1)
	if p.match(lexer.LBRACKET) {
		if length, ok = p.parseUint("expected region length"); !ok {
			return nil
		}
		if _, ok = p.expect(lexer.RBRACKET, "expected ']'"); !ok {
			return nil
		}
	}

	var sharing *ir.Sharing
	if p.checkKeyword("SHARING") {
		p.advance()
		target, ok := p.expect(lexer.IDENT, "expected shared region name")
		if !ok {
			return nil
		}
		sharing = &ir.Sharing{Name: target.Value}
		for p.checkKeyword("OFFSET") {
			p.advance()
			n, ok := p.parseUint("expected offset length")
			if !ok {
				return nil
			}
			dt, ok := p.parseScalarType()
			if !ok {
				return nil
			}
			sharing.Offsets = append(sharing.Offsets, ir.Offset{Length: n, DataType: dt})
		}
	}

	return ir.NewDeclaration(nameTok.Value, ir.Vector{DataType: dataType, Length: length}, sharing)
}

func (p *Parser) parseScalarType() (ir.ScalarType, bool) {
	tok := p.peek()
	if tok.Type == lexer.IDENT && ir.ValidScalarTypes[ir.ScalarType(tok.Value)] {
		p.advance()
		return ir.ScalarType(tok.Value), true
	}
	p.addError(tok, fmt.Sprintf("expected one of BIT, OCTET, INTEGER, REAL (got %s)", tok))
	return "", false
}

// parseMeasure parses MEASURE qubit [name[index]].
func (p *Parser) parseMeasure() ir.Instruction {
	p.advance() // MEASURE

	qubit, ok := p.parseQubit()
	if !ok {
		p.addError(p.peek(), "expected qubit after MEASURE")
		return nil
	}
	m := &ir.Measurement{Qubit: qubit}
	if p.check(lexer.IDENT) {
		ref, ok := p.parseMemoryReference()
		if !ok {
			return nil
		}
		m.Target = &ref
	}
	return m
}

// parseReset parses RESET [qubit].
func (p *Parser) parseReset() ir.Instruction {
	p.advance() // RESET
	if q, ok := p.parseQubit(); ok {
		return &ir.Reset{Qubit: q}
	}
	return &ir.Reset{}
}

// parseFence parses FENCE qubit*.
func (p *Parser) parseFence() ir.Instruction {
	p.advance() // FENCE
	return &ir.Fence{Qubits: p.parseQubits()}
}

// parseNonBlocking parses NONBLOCKING followed by PULSE, CAPTURE or RAW-CAPTURE.
func (p *Parser) parseNonBlocking() ir.Instruction {
	p.advance() // NONBLOCKING
	switch {
	case p.checkKeyword("PULSE"):
		return p.parsePulse(true)
	case p.checkKeyword("CAPTURE"):
		return p.parseCapture(true)
	case p.checkKeyword("RAW-CAPTURE"):
		return p.parseRawCapture(true)
	}
	tok := p.peek()
	p.addError(tok, fmt.Sprintf("expected PULSE, CAPTURE or RAW-CAPTURE after NONBLOCKING (got %s)", tok))
	return nil
}

// parsePulse parses PULSE frame waveform.
func (p *Parser) parsePulse(nonBlocking bool) ir.Instruction {
	p.advance() // PULSE

	frame, ok := p.parseFrame()
	if !ok {
		return nil
	}
	waveform, ok := p.parseWaveform()
	if !ok {
		return nil
	}
	return &ir.Pulse{NonBlocking: nonBlocking, Frame: frame, Waveform: waveform}
}

// parseCapture parses CAPTURE frame waveform name[index].
func (p *Parser) parseCapture(nonBlocking bool) ir.Instruction {
	p.advance() // CAPTURE

	frame, ok := p.parseFrame()
	if !ok {
		return nil
	}
	waveform, ok := p.parseWaveform()
	if !ok {
		return nil
	}
	target, ok := p.parseMemoryReference()
	if !ok {
		return nil
	}
	return &ir.Capture{NonBlocking: nonBlocking, Frame: frame, Waveform: waveform, Target: target}
}

// parseRawCapture parses RAW-CAPTURE frame duration name[index].
func (p *Parser) parseRawCapture(nonBlocking bool) ir.Instruction {
	p.advance() // RAW-CAPTURE

	frame, ok := p.parseFrame()
	if !ok {
		return nil
	}
	duration := p.parseExpression()
	if duration == nil {
		return nil
	}
	target, ok := p.parseMemoryReference()
	if !ok {
		return nil
	}
	return &ir.RawCapture{NonBlocking: nonBlocking, Frame: frame, Duration: duration, Target: target}
}

// parseDelay parses DELAY qubit+ "frame"* duration.
func (p *Parser) parseDelay() ir.Instruction {
	p.advance() // DELAY

	var qubits []ir.Qubit
	for p.atDelayQubit() {
		tok := p.peek()
		q, ok := p.parseQubit()
		if !ok {
			p.addError(tok, fmt.Sprintf("invalid qubit %s", tok.Value))
			return nil
		}
		qubits = append(qubits, q)
	}
	if len(qubits) == 0 {
		p.addError(p.peek(), "DELAY requires at least one qubit")
		return nil
	}

	var names []string
	for p.check(lexer.STRING) {
		name, ok := p.parseString()
		if !ok {
			return nil
		}
		names = append(names, name)
	}

	duration := p.parseExpression()
	if duration == nil {
		return nil
	}
	return &ir.Delay{Qubits: qubits, FrameNames: names, Duration: duration}
}

// atDelayQubit reports whether the current token is a DELAY qubit rather
// than the start of the duration. A qubit is always followed by another
// operand, so the final token before the end of the line is the duration.
func (p *Parser) atDelayQubit() bool {
	tok, next := p.peek(), p.peekAt(1)
	switch tok.Type {
	case lexer.INT:
	case lexer.IDENT:
		if ir.Keywords[tok.Value] || strings.EqualFold(tok.Value, "pi") ||
			next.Type == lexer.LPAREN || next.Type == lexer.LBRACKET {
			return false
		}
	default:
		return false
	}
	switch next.Type {
	case lexer.INT, lexer.FLOAT, lexer.IMAGINARY, lexer.IDENT, lexer.STRING, lexer.VARIABLE, lexer.LPAREN:
		return true
	}
	return false
}

// parseSwapPhases parses SWAP-PHASES frame frame.
func (p *Parser) parseSwapPhases() ir.Instruction {
	p.advance() // SWAP-PHASES

	first, ok := p.parseFrame()
	if !ok {
		return nil
	}
	second, ok := p.parseFrame()
	if !ok {
		return nil
	}
	return &ir.SwapPhases{First: first, Second: second}
}

// parseFrameUpdate parses OP frame expression.
func (p *Parser) parseFrameUpdate(op ir.FrameOperation) ir.Instruction {
	p.advance() // operation

	frame, ok := p.parseFrame()
	if !ok {
		return nil
	}
	value := p.parseExpression()
	if value == nil {
		return nil
	}
	return &ir.FrameUpdate{Operation: op, Frame: frame, Value: value}
}

// parsePragma parses PRAGMA name arg* ["data"].
func (p *Parser) parsePragma() ir.Instruction {
	p.advance() // PRAGMA

	nameTok, ok := p.expect(lexer.IDENT, "expected pragma name")
	if !ok {
		return nil
	}
	pragma := &ir.Pragma{Name: nameTok.Value}
	for p.check(lexer.IDENT) || p.check(lexer.INT) {
		pragma.Arguments = append(pragma.Arguments, p.advance().Value)
	}
	if p.check(lexer.STRING) {
		data, ok := p.parseString()
		if !ok {
			return nil
		}
		pragma.Data = data
	}
	return pragma
}

// =========================================================================
// Calibrations
// =========================================================================

// parseDefcal parses DEFCAL MEASURE ... or a gate DEFCAL, header and body.
func (p *Parser) parseDefcal() ir.Instruction {
	p.advance() // DEFCAL
	if p.checkKeyword("MEASURE") {
		return p.parseDefcalMeasure()
	}

	modifiers := p.parseModifiers()
	nameTok, ok := p.expect(lexer.IDENT, "expected calibration name")
	if !ok {
		return nil
	}
	exprs := p.parseOptionalExpressionList()
	qubits := p.parseQubits()
	if _, ok := p.expect(lexer.COLON, "expected ':' after DEFCAL header"); !ok {
		return nil
	}
	body, ok := p.parseBody()
	if !ok {
		return nil
	}

	params := make([]ir.Parameter, len(exprs))
	for i, e := range exprs {
		params[i] = ir.ExpressionParameter{Expression: e}
	}
	cal, err := ir.NewCalibration(nameTok.Value, params, qubits, body, modifiers...)
	if err != nil {
		p.addError(nameTok, err.Error())
		return nil
	}
	return cal
}

// parseDefcalMeasure parses DEFCAL MEASURE [qubit] name[index]?: body.
// A single identifier before the colon is the memory reference, not a qubit.
func (p *Parser) parseDefcalMeasure() ir.Instruction {
	p.advance() // MEASURE

	var qubit ir.Qubit
	switch {
	case p.check(lexer.INT):
		qubit, _ = p.parseQubit()
	case p.check(lexer.IDENT) && p.peekAt(1).Type == lexer.IDENT:
		qubit, _ = p.parseQubit()
	}

	paramTok, ok := p.expect(lexer.IDENT, "expected memory reference in DEFCAL MEASURE")
	if !ok {
		return nil
	}
	parameter := paramTok.Value
	if p.match(lexer.LBRACKET) {
		idx, ok := p.parseUint("expected memory index")
		if !ok {
			return nil
		}
		if _, ok := p.expect(lexer.RBRACKET, "expected ']'"); !ok {
			return nil
		}
		parameter = ir.MemoryReference{Name: paramTok.Value, Index: idx}.String()
	}

	if _, ok := p.expect(lexer.COLON, "expected ':' after DEFCAL MEASURE header"); !ok {
		return nil
	}
	body, ok := p.parseBody()
	if !ok {
		return nil
	}
	return ir.NewMeasureCalibrationNamed(qubit, parameter, body)
}

// definitionKeywords introduce program-level definitions, which may not
// appear inside a DEFCAL body.
var definitionKeywords = map[string]bool{
	"DECLARE":     true,
	"DEFCAL":      true,
	"DEFFRAME":    true,
	"DEFWAVEFORM": true,
}

// parseBody parses the indented lines following a DEFCAL header. The header
// line break is consumed here, as is the break after each body line.
func (p *Parser) parseBody() ([]ir.Instruction, bool) {
	if !p.endOfInstruction() {
		return nil, false
	}

	var body []ir.Instruction
	for p.check(lexer.INDENT) {
		p.advance()
		tok := p.peek()
		if tok.Type == lexer.IDENT && definitionKeywords[tok.Value] {
			p.addError(tok, fmt.Sprintf("%s is not allowed inside a DEFCAL body", tok.Value))
			return nil, false
		}
		instr := p.parseInstruction()
		if instr == nil {
			return nil, false
		}
		if !p.endOfInstruction() {
			return nil, false
		}
		body = append(body, instr)
	}
	return body, true
}

// =========================================================================
// Frame and waveform definitions
// =========================================================================

// parseDefframe parses DEFFRAME frame[: attribute lines]. Each attribute
// line is NAME: "string" or NAME: expression.
func (p *Parser) parseDefframe() ir.Instruction {
	p.advance() // DEFFRAME

	frame, ok := p.parseFrame()
	if !ok {
		return nil
	}
	def := &ir.FrameDefinition{Frame: frame}
	if !p.match(lexer.COLON) {
		if !p.endOfInstruction() {
			return nil
		}
		return def
	}
	if !p.endOfInstruction() {
		return nil
	}

	seen := make(map[string]bool)
	for p.check(lexer.INDENT) {
		p.advance()
		nameTok, ok := p.expect(lexer.IDENT, "expected frame attribute name")
		if !ok {
			return nil
		}
		if seen[nameTok.Value] {
			p.addError(nameTok, fmt.Sprintf("duplicate frame attribute %s", nameTok.Value))
			return nil
		}
		seen[nameTok.Value] = true
		if _, ok := p.expect(lexer.COLON, "expected ':' after frame attribute name"); !ok {
			return nil
		}

		var value ir.AttributeValue
		if p.check(lexer.STRING) {
			text, ok := p.parseString()
			if !ok {
				return nil
			}
			value = ir.TextAttribute(text)
		} else {
			e := p.parseExpression()
			if e == nil {
				return nil
			}
			value = ir.ExpressionAttribute(e)
		}
		if !p.endOfInstruction() {
			return nil
		}
		def.Attributes = append(def.Attributes, ir.FrameAttribute{Name: nameTok.Value, Value: value})
	}
	return def
}

// parseDefwaveform parses DEFWAVEFORM name[(%param, ...)]: followed by one
// or more indented lines of comma-separated samples.
func (p *Parser) parseDefwaveform() ir.Instruction {
	p.advance() // DEFWAVEFORM

	nameTok, ok := p.expect(lexer.IDENT, "expected waveform name")
	if !ok {
		return nil
	}
	if err := ir.ValidateIdentifier(nameTok.Value); err != nil {
		p.addError(nameTok, err.Error())
		return nil
	}
	def := &ir.WaveformDefinition{Name: nameTok.Value}

	if p.match(lexer.LPAREN) {
		for {
			param, ok := p.expect(lexer.VARIABLE, "expected waveform parameter")
			if !ok {
				return nil
			}
			def.Parameters = append(def.Parameters, param.Value)
			if !p.match(lexer.COMMA) {
				break
			}
		}
		if _, ok := p.expect(lexer.RPAREN, "expected ')' after waveform parameters"); !ok {
			return nil
		}
	}
	if _, ok := p.expect(lexer.COLON, "expected ':' after DEFWAVEFORM header"); !ok {
		return nil
	}
	if !p.endOfInstruction() {
		return nil
	}

	for p.check(lexer.INDENT) {
		p.advance()
		for {
			e := p.parseExpression()
			if e == nil {
				return nil
			}
			def.Samples = append(def.Samples, e)
			if !p.match(lexer.COMMA) {
				break
			}
		}
		if !p.endOfInstruction() {
			return nil
		}
	}
	if len(def.Samples) == 0 {
		p.addError(nameTok, fmt.Sprintf("waveform %s requires at least one sample", nameTok.Value))
		return nil
	}
	return def
}

// =========================================================================
// Operands
// =========================================================================

// parseQubit parses a fixed (integer) or variable (identifier) qubit.
// It does not record an error when the current token is not a qubit.
func (p *Parser) parseQubit() (ir.Qubit, bool) {
	tok := p.peek()
	switch tok.Type {
	case lexer.INT:
		n, err := strconv.ParseUint(tok.Value, 10, 64)
		if err != nil {
			return nil, false
		}
		p.advance()
		return ir.FixedQubit(n), true
	case lexer.IDENT:
		if ir.Keywords[tok.Value] {
			return nil, false
		}
		p.advance()
		return ir.VariableQubit(tok.Value), true
	}
	return nil, false
}

func (p *Parser) parseQubits() []ir.Qubit {
	var qubits []ir.Qubit
	for {
		q, ok := p.parseQubit()
		if !ok {
			return qubits
		}
		qubits = append(qubits, q)
	}
}

// parseFrame parses qubit+ "name".
func (p *Parser) parseFrame() (ir.FrameIdentifier, bool) {
	qubits := p.parseQubits()
	if len(qubits) == 0 {
		tok := p.peek()
		p.addError(tok, fmt.Sprintf("expected frame qubits (got %s)", tok))
		return ir.FrameIdentifier{}, false
	}
	if !p.check(lexer.STRING) {
		tok := p.peek()
		p.addError(tok, fmt.Sprintf("expected frame name string (got %s)", tok))
		return ir.FrameIdentifier{}, false
	}
	name, ok := p.parseString()
	if !ok {
		return ir.FrameIdentifier{}, false
	}
	return ir.FrameIdentifier{Qubits: qubits, Name: name}, true
}

// parseWaveform parses name[(param: expr, ...)].
func (p *Parser) parseWaveform() (ir.WaveformInvocation, bool) {
	nameTok, ok := p.expect(lexer.IDENT, "expected waveform name")
	if !ok {
		return ir.WaveformInvocation{}, false
	}
	wf := ir.WaveformInvocation{Name: nameTok.Value}
	if !p.match(lexer.LPAREN) {
		return wf, true
	}

	wf.Parameters = make(map[string]ir.Expression)
	for {
		key, ok := p.expect(lexer.IDENT, "expected waveform parameter name")
		if !ok {
			return wf, false
		}
		if _, dup := wf.Parameters[key.Value]; dup {
			p.addError(key, fmt.Sprintf("duplicate waveform parameter %s", key.Value))
			return wf, false
		}
		if _, ok := p.expect(lexer.COLON, "expected ':' after waveform parameter name"); !ok {
			return wf, false
		}
		value := p.parseExpression()
		if value == nil {
			return wf, false
		}
		wf.Parameters[key.Value] = value
		if !p.match(lexer.COMMA) {
			break
		}
	}
	_, ok = p.expect(lexer.RPAREN, "expected ')' after waveform parameters")
	return wf, ok
}

// parseMemoryReference parses name[index]; a bare name addresses index 0.
func (p *Parser) parseMemoryReference() (ir.MemoryReference, bool) {
	nameTok, ok := p.expect(lexer.IDENT, "expected memory reference")
	if !ok {
		return ir.MemoryReference{}, false
	}
	ref := ir.MemoryReference{Name: nameTok.Value}
	if p.match(lexer.LBRACKET) {
		if ref.Index, ok = p.parseUint("expected memory index"); !ok {
			return ref, false
		}
		if _, ok = p.expect(lexer.RBRACKET, "expected ']'"); !ok {
			return ref, false
		}
	}
	return ref, true
}

func (p *Parser) parseUint(msg string) (uint64, bool) {
	tok, ok := p.expect(lexer.INT, msg)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseUint(tok.Value, 10, 64)
	if err != nil {
		p.addError(tok, fmt.Sprintf("integer out of range: %s", tok.Value))
		return 0, false
	}
	return n, true
}

func (p *Parser) parseString() (string, bool) {
	tok := p.advance()
	s, err := strconv.Unquote(tok.Value)
	if err != nil {
		p.addError(tok, fmt.Sprintf("invalid string literal %s", tok.Value))
		return "", false
	}
	return s, true
}
