package engine

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Evaluator formula/kondisi dengan grammar tertutup: angka, nama variabel,
// aritmetika, perbandingan, and/or/not, dan fungsi min/max/round/Decimal.
// Semua konstruksi di luar grammar ditolak saat parse, bukan saat eval.
//
// Kebijakan fail-safe: formula yang rusak menghasilkan 0, kondisi yang rusak
// menghasilkan false. Satu komponen yang salah tulis tidak boleh menggagalkan
// perhitungan slip.

const (
	maxExprTokens = 512
	maxEvalSteps  = 10000
)

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokString
	tokIdent
	tokOp
	tokLParen
	tokRParen
	tokComma
	tokEOF
)

type token struct {
	kind tokenKind
	text string
}

type lexer struct {
	src    string
	pos    int
	tokens []token
}

func lex(src string) ([]token, error) {
	l := &lexer{src: src}
	for l.pos < len(l.src) {
		ch := l.src[l.pos]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			l.pos++
		case ch >= '0' && ch <= '9' || ch == '.':
			l.number()
		case ch == '\'' || ch == '"':
			if err := l.quoted(ch); err != nil {
				return nil, err
			}
		case isIdentStart(rune(ch)):
			l.ident()
		case ch == '(':
			l.emit(tokLParen, "(")
		case ch == ')':
			l.emit(tokRParen, ")")
		case ch == ',':
			l.emit(tokComma, ",")
		case strings.ContainsRune("+-*/%", rune(ch)):
			l.emit(tokOp, string(ch))
		case ch == '<' || ch == '>':
			if l.peek(1) == '=' {
				l.emit2(tokOp, string(ch)+"=")
			} else {
				l.emit(tokOp, string(ch))
			}
		case ch == '=':
			if l.peek(1) != '=' {
				return nil, fmt.Errorf("assignment is not allowed in formulas")
			}
			l.emit2(tokOp, "==")
		case ch == '!':
			if l.peek(1) != '=' {
				return nil, fmt.Errorf("unexpected character %q", ch)
			}
			l.emit2(tokOp, "!=")
		default:
			return nil, fmt.Errorf("unexpected character %q", ch)
		}
		if len(l.tokens) > maxExprTokens {
			return nil, fmt.Errorf("expression exceeds %d tokens", maxExprTokens)
		}
	}
	l.tokens = append(l.tokens, token{kind: tokEOF})
	return l.tokens, nil
}

func (l *lexer) peek(ahead int) byte {
	if l.pos+ahead >= len(l.src) {
		return 0
	}
	return l.src[l.pos+ahead]
}

func (l *lexer) emit(kind tokenKind, text string) {
	l.tokens = append(l.tokens, token{kind: kind, text: text})
	l.pos++
}

func (l *lexer) emit2(kind tokenKind, text string) {
	l.tokens = append(l.tokens, token{kind: kind, text: text})
	l.pos += 2
}

func (l *lexer) number() {
	start := l.pos
	for l.pos < len(l.src) && (l.src[l.pos] >= '0' && l.src[l.pos] <= '9' || l.src[l.pos] == '.' || l.src[l.pos] == '_') {
		l.pos++
	}
	text := strings.ReplaceAll(l.src[start:l.pos], "_", "")
	l.tokens = append(l.tokens, token{kind: tokNumber, text: text})
}

func (l *lexer) quoted(quote byte) error {
	l.pos++
	start := l.pos
	for l.pos < len(l.src) && l.src[l.pos] != quote {
		l.pos++
	}
	if l.pos >= len(l.src) {
		return fmt.Errorf("unterminated string literal")
	}
	l.tokens = append(l.tokens, token{kind: tokString, text: l.src[start:l.pos]})
	l.pos++
	return nil
}

func (l *lexer) ident() {
	start := l.pos
	for l.pos < len(l.src) && isIdentPart(rune(l.src[l.pos])) {
		l.pos++
	}
	l.tokens = append(l.tokens, token{kind: tokIdent, text: l.src[start:l.pos]})
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// --- AST ---

type nodeKind int

const (
	nodeNumber nodeKind = iota
	nodeVar
	nodeUnary
	nodeBinary
	nodeCall
)

type astNode struct {
	kind nodeKind
	num  decimal.Decimal
	name string
	op   string
	args []*astNode
}

// Expr adalah ekspresi yang sudah diparse dan siap dievaluasi berulang kali.
type Expr struct {
	root *astNode
	src  string
}

type parser struct {
	tokens []token
	pos    int
}

var allowedFuncs = map[string]struct{}{
	"min":     {},
	"max":     {},
	"round":   {},
	"Decimal": {},
}

// Parse menerjemahkan satu formula/kondisi ke AST.
// Konstruksi di luar grammar (assignment, atribut, indexing, string bebas)
// ditolak di sini.
func Parse(src string) (*Expr, error) {
	if strings.TrimSpace(src) == "" {
		return nil, fmt.Errorf("empty expression")
	}
	tokens, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.current().kind != tokEOF {
		return nil, fmt.Errorf("unexpected token %q", p.current().text)
	}
	return &Expr{root: root, src: src}, nil
}

func (p *parser) current() token {
	return p.tokens[p.pos]
}

func (p *parser) advance() token {
	t := p.tokens[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) parseOr() (*astNode, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.current().kind == tokIdent && p.current().text == "or" {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &astNode{kind: nodeBinary, op: "or", args: []*astNode{left, right}}
	}
	return left, nil
}

func (p *parser) parseAnd() (*astNode, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.current().kind == tokIdent && p.current().text == "and" {
		p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &astNode{kind: nodeBinary, op: "and", args: []*astNode{left, right}}
	}
	return left, nil
}

func (p *parser) parseNot() (*astNode, error) {
	if p.current().kind == tokIdent && p.current().text == "not" {
		p.advance()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &astNode{kind: nodeUnary, op: "not", args: []*astNode{operand}}, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (*astNode, error) {
	left, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	cur := p.current()
	if cur.kind == tokOp && isComparisonOp(cur.text) {
		p.advance()
		right, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		return &astNode{kind: nodeBinary, op: cur.text, args: []*astNode{left, right}}, nil
	}
	return left, nil
}

func isComparisonOp(op string) bool {
	switch op {
	case "<", "<=", ">", ">=", "==", "!=":
		return true
	}
	return false
}

func (p *parser) parseSum() (*astNode, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.current().kind == tokOp && (p.current().text == "+" || p.current().text == "-") {
		op := p.advance().text
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &astNode{kind: nodeBinary, op: op, args: []*astNode{left, right}}
	}
	return left, nil
}

func (p *parser) parseTerm() (*astNode, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.current().kind == tokOp && (p.current().text == "*" || p.current().text == "/" || p.current().text == "%") {
		op := p.advance().text
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &astNode{kind: nodeBinary, op: op, args: []*astNode{left, right}}
	}
	return left, nil
}

func (p *parser) parseUnary() (*astNode, error) {
	if p.current().kind == tokOp && p.current().text == "-" {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &astNode{kind: nodeUnary, op: "-", args: []*astNode{operand}}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (*astNode, error) {
	cur := p.advance()
	switch cur.kind {
	case tokNumber, tokString:
		num, err := decimal.NewFromString(cur.text)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", cur.text)
		}
		return &astNode{kind: nodeNumber, num: num}, nil
	case tokIdent:
		if cur.text == "and" || cur.text == "or" || cur.text == "not" {
			return nil, fmt.Errorf("unexpected keyword %q", cur.text)
		}
		if p.current().kind == tokLParen {
			return p.parseCall(cur.text)
		}
		return &astNode{kind: nodeVar, name: cur.text}, nil
	case tokLParen:
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.current().kind != tokRParen {
			return nil, fmt.Errorf("missing closing parenthesis")
		}
		p.advance()
		return inner, nil
	default:
		return nil, fmt.Errorf("unexpected token %q", cur.text)
	}
}

func (p *parser) parseCall(name string) (*astNode, error) {
	if _, ok := allowedFuncs[name]; !ok {
		return nil, fmt.Errorf("function %q is not allowed", name)
	}
	p.advance() // '('
	var args []*astNode
	if p.current().kind != tokRParen {
		for {
			arg, err := p.parseOr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.current().kind != tokComma {
				break
			}
			p.advance()
		}
	}
	if p.current().kind != tokRParen {
		return nil, fmt.Errorf("missing closing parenthesis in %s()", name)
	}
	p.advance()
	if len(args) == 0 {
		return nil, fmt.Errorf("%s() requires at least one argument", name)
	}
	return &astNode{kind: nodeCall, name: name, args: args}, nil
}

// --- evaluation ---

type value struct {
	num    decimal.Decimal
	b      bool
	isBool bool
}

func numValue(d decimal.Decimal) value { return value{num: d} }
func boolValue(b bool) value           { return value{b: b, isBool: true} }

func (v value) truthy() bool {
	if v.isBool {
		return v.b
	}
	return !v.num.IsZero()
}

func (v value) number() (decimal.Decimal, error) {
	if v.isBool {
		return decimal.Zero, fmt.Errorf("boolean used as number")
	}
	return v.num, nil
}

type evaluator struct {
	ctx   Context
	steps int
}

// EvalNumber mengevaluasi ekspresi sebagai formula numerik.
func (e *Expr) EvalNumber(ctx Context) (decimal.Decimal, error) {
	ev := &evaluator{ctx: ctx}
	v, err := ev.eval(e.root)
	if err != nil {
		return decimal.Zero, err
	}
	return v.number()
}

// EvalBool mengevaluasi ekspresi sebagai kondisi.
// Hasil numerik mengikuti truthiness: bukan nol berarti true.
func (e *Expr) EvalBool(ctx Context) (bool, error) {
	ev := &evaluator{ctx: ctx}
	v, err := ev.eval(e.root)
	if err != nil {
		return false, err
	}
	return v.truthy(), nil
}

func (ev *evaluator) eval(n *astNode) (value, error) {
	ev.steps++
	if ev.steps > maxEvalSteps {
		return value{}, fmt.Errorf("evaluation exceeded %d steps", maxEvalSteps)
	}

	switch n.kind {
	case nodeNumber:
		return numValue(n.num), nil
	case nodeVar:
		v, ok := ev.ctx.Lookup(n.name)
		if !ok {
			return value{}, fmt.Errorf("unknown variable %q", n.name)
		}
		return numValue(v), nil
	case nodeUnary:
		return ev.evalUnary(n)
	case nodeBinary:
		return ev.evalBinary(n)
	case nodeCall:
		return ev.evalCall(n)
	default:
		return value{}, fmt.Errorf("invalid expression node")
	}
}

func (ev *evaluator) evalUnary(n *astNode) (value, error) {
	operand, err := ev.eval(n.args[0])
	if err != nil {
		return value{}, err
	}
	switch n.op {
	case "-":
		num, err := operand.number()
		if err != nil {
			return value{}, err
		}
		return numValue(num.Neg()), nil
	case "not":
		return boolValue(!operand.truthy()), nil
	}
	return value{}, fmt.Errorf("invalid unary operator %q", n.op)
}

func (ev *evaluator) evalBinary(n *astNode) (value, error) {
	// and/or memakai short-circuit seperti sumbernya
	if n.op == "and" || n.op == "or" {
		left, err := ev.eval(n.args[0])
		if err != nil {
			return value{}, err
		}
		if n.op == "and" && !left.truthy() {
			return boolValue(false), nil
		}
		if n.op == "or" && left.truthy() {
			return boolValue(true), nil
		}
		right, err := ev.eval(n.args[1])
		if err != nil {
			return value{}, err
		}
		return boolValue(right.truthy()), nil
	}

	left, err := ev.eval(n.args[0])
	if err != nil {
		return value{}, err
	}
	right, err := ev.eval(n.args[1])
	if err != nil {
		return value{}, err
	}

	l, err := left.number()
	if err != nil {
		return value{}, err
	}
	r, err := right.number()
	if err != nil {
		return value{}, err
	}

	switch n.op {
	case "+":
		return numValue(l.Add(r)), nil
	case "-":
		return numValue(l.Sub(r)), nil
	case "*":
		return numValue(l.Mul(r)), nil
	case "/":
		if r.IsZero() {
			return value{}, fmt.Errorf("division by zero")
		}
		return numValue(l.Div(r)), nil
	case "%":
		if r.IsZero() {
			return value{}, fmt.Errorf("division by zero")
		}
		return numValue(l.Mod(r)), nil
	case "<":
		return boolValue(l.LessThan(r)), nil
	case "<=":
		return boolValue(l.LessThanOrEqual(r)), nil
	case ">":
		return boolValue(l.GreaterThan(r)), nil
	case ">=":
		return boolValue(l.GreaterThanOrEqual(r)), nil
	case "==":
		return boolValue(l.Equal(r)), nil
	case "!=":
		return boolValue(!l.Equal(r)), nil
	}
	return value{}, fmt.Errorf("invalid operator %q", n.op)
}

func (ev *evaluator) evalCall(n *astNode) (value, error) {
	nums := make([]decimal.Decimal, 0, len(n.args))
	for _, arg := range n.args {
		v, err := ev.eval(arg)
		if err != nil {
			return value{}, err
		}
		num, err := v.number()
		if err != nil {
			return value{}, err
		}
		nums = append(nums, num)
	}

	switch n.name {
	case "min":
		out := nums[0]
		for _, v := range nums[1:] {
			if v.LessThan(out) {
				out = v
			}
		}
		return numValue(out), nil
	case "max":
		out := nums[0]
		for _, v := range nums[1:] {
			if v.GreaterThan(out) {
				out = v
			}
		}
		return numValue(out), nil
	case "round":
		places := int32(0)
		if len(nums) > 1 {
			places = int32(nums[1].IntPart())
		}
		// round() Python memakai banker's rounding; dipertahankan di sini
		return numValue(nums[0].RoundBank(places)), nil
	case "Decimal":
		return numValue(nums[0]), nil
	}
	return value{}, fmt.Errorf("function %q is not allowed", n.name)
}

// EvalFormula mengevaluasi formula dengan kebijakan fail-safe: error apa pun
// (parse, variabel tak dikenal, pembagian nol) menghasilkan nol.
func EvalFormula(src string, ctx Context) decimal.Decimal {
	expr, err := Parse(src)
	if err != nil {
		return decimal.Zero
	}
	out, err := expr.EvalNumber(ctx)
	if err != nil {
		return decimal.Zero
	}
	return out
}

// EvalCondition mengevaluasi kondisi dengan kebijakan fail-safe: error
// menghasilkan false sehingga komponen dilewati, bukan run yang gagal.
func EvalCondition(src string, ctx Context) bool {
	expr, err := Parse(src)
	if err != nil {
		return false
	}
	out, err := expr.EvalBool(ctx)
	if err != nil {
		return false
	}
	return out
}
