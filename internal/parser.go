package internal

const maxFunctionParams = 255

// parser stores parser data
type parser struct {
	current int

	state *interpreterState
}

func newParser(state *interpreterState) *parser {
	return &parser{state: state}
}

func (p *parser) parse() {
	p.state.stmts = make([]stmt, 0)
	for !p.isAtEnd() {
		// A declaration that failed to parse comes back as nil
		// and does not take part in the program
		if st := p.declaration(); st != nil {
			p.state.stmts = append(p.state.stmts, st)
		}
	}
}

func (p *parser) declaration() (s stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, isParseErr := r.(parseError); !isParseErr {
				panic(r)
			}
			p.synchronize()
			s = nil
		}
	}()
	if p.match(tkClass) {
		return p.class()
	}
	if p.match(tkFun) {
		return p.fn(errExpectFunctionName)
	}
	if p.match(tkVar) {
		return p.varDecl()
	}
	return p.statement()
}

func (p *parser) class() stmt {
	name := p.consume(tkIdentifier, errExpectClassName)
	p.consume(tkLeftBrace, errExpectClassBody)

	methods := make([]*fnStmt, 0)
	for !p.check(tkRightBrace) && !p.isAtEnd() {
		methods = append(methods, p.fn(errExpectMethodName))
	}

	p.consume(tkRightBrace, errUnclosedClass)

	return &classStmt{
		name:    name,
		methods: methods,
	}
}

func (p *parser) fn(errName error) *fnStmt {
	name := p.consume(tkIdentifier, errName)

	p.consume(tkLeftParen, errExpectParenAfterName)

	params := make([]*Token, 0)
	if !p.check(tkRightParen) {
		for {
			if len(params) >= maxFunctionParams {
				p.state.tokenError(errMaxParameters, p.peek())
			}
			params = append(params, p.consume(tkIdentifier, errExpectParamName))
			if !p.match(tkComma) {
				break
			}
		}
	}
	p.consume(tkRightParen, errUnclosedParams)

	p.consume(tkLeftBrace, errExpectBody)
	body := p.block()

	return &fnStmt{
		name:   name,
		params: params,
		body:   body,
	}
}

func (p *parser) varDecl() stmt {
	name := p.consume(tkIdentifier, errExpectVariableName)

	var init expr
	if p.match(tkEqual) {
		init = p.expression()
	}
	p.consume(tkSemicolon, errExpectSemicolonVar)

	return &varStmt{
		name:        name,
		initializer: init,
	}
}

func (p *parser) statement() stmt {
	if p.match(tkFor) {
		return p.forLoop()
	}
	if p.match(tkIf) {
		return p.ifStmt()
	}
	if p.match(tkPrint) {
		return p.printStmt()
	}
	if p.match(tkReturn) {
		return p.ret()
	}
	if p.match(tkWhile) {
		return p.while()
	}
	if p.match(tkLeftBrace) {
		return &blockStmt{stmts: p.block()}
	}
	return p.expressionStmt()
}

// forLoop desugars into
// { initializer; while (condition) { body; increment; } }
func (p *parser) forLoop() stmt {
	p.consume(tkLeftParen, errExpectParenFor)

	var init stmt
	if p.match(tkSemicolon) {
		init = nil
	} else if p.match(tkVar) {
		init = p.varDecl()
	} else {
		init = p.expressionStmt()
	}

	var cond expr
	if !p.check(tkSemicolon) {
		cond = p.expression()
	}
	p.consume(tkSemicolon, errExpectSemicolonCond)

	var inc expr
	if !p.check(tkRightParen) {
		inc = p.expression()
	}
	p.consume(tkRightParen, errExpectParenForClauses)

	body := p.statement()

	loopBody := []stmt{body}
	if inc != nil {
		loopBody = append(loopBody, &exprStmt{expression: inc})
	}
	if cond == nil {
		cond = &literalExpr{value: true}
	}

	outer := make([]stmt, 0, 2)
	if init != nil {
		outer = append(outer, init)
	}
	outer = append(outer, &whileStmt{
		condition: cond,
		body:      &blockStmt{stmts: loopBody},
	})

	return &blockStmt{stmts: outer}
}

func (p *parser) ifStmt() stmt {
	p.consume(tkLeftParen, errExpectParenIf)
	cond := p.expression()
	p.consume(tkRightParen, errExpectParenIfCond)

	st := &ifStmt{
		condition:  cond,
		thenBranch: p.statement(),
	}
	if p.match(tkElse) {
		st.elseBranch = p.statement()
	}
	return st
}

func (p *parser) printStmt() stmt {
	value := p.expression()
	p.consume(tkSemicolon, errExpectSemicolonValue)
	return &printStmt{expression: value}
}

func (p *parser) ret() stmt {
	keyword := p.previous()
	var value expr
	if !p.check(tkSemicolon) {
		value = p.expression()
	}
	p.consume(tkSemicolon, errExpectSemicolonReturn)
	return &returnStmt{
		keyword: keyword,
		value:   value,
	}
}

func (p *parser) while() stmt {
	p.consume(tkLeftParen, errExpectParenWhile)
	cond := p.expression()
	p.consume(tkRightParen, errExpectParenWhileCond)
	return &whileStmt{
		condition: cond,
		body:      p.statement(),
	}
}

func (p *parser) block() []stmt {
	stmts := make([]stmt, 0)
	for !p.check(tkRightBrace) && !p.isAtEnd() {
		if st := p.declaration(); st != nil {
			stmts = append(stmts, st)
		}
	}
	p.consume(tkRightBrace, errUnclosedBlock)
	return stmts
}

func (p *parser) expressionStmt() stmt {
	e := p.expression()
	p.consume(tkSemicolon, errExpectSemicolonExpr)
	return &exprStmt{expression: e}
}

func (p *parser) expression() expr {
	return p.assignment()
}

func (p *parser) assignment() expr {
	e := p.or()
	if p.match(tkEqual) {
		equals := p.previous()
		value := p.assignment()

		if variable, isVar := e.(*variableExpr); isVar {
			return &assignExpr{
				name:  variable.name,
				value: value,
			}
		} else if get, isGet := e.(*getExpr); isGet {
			return &setExpr{
				object: get.object,
				name:   get.name,
				value:  value,
			}
		}

		// Reported but not fatal: the parser is not confused
		p.state.tokenError(errInvalidAssignment, equals)
	}
	return e
}

func (p *parser) or() expr {
	e := p.and()
	for p.match(tkOr) {
		operator := p.previous()
		right := p.and()
		e = &logicalExpr{
			left:     e,
			operator: operator,
			right:    right,
		}
	}
	return e
}

func (p *parser) and() expr {
	e := p.equality()
	for p.match(tkAnd) {
		operator := p.previous()
		right := p.equality()
		e = &logicalExpr{
			left:     e,
			operator: operator,
			right:    right,
		}
	}
	return e
}

func (p *parser) equality() expr {
	return p.binary(p.comparison, tkBangEqual, tkEqualEqual)
}

func (p *parser) comparison() expr {
	return p.binary(p.term, tkGreater, tkGreaterEqual, tkLess, tkLessEqual)
}

func (p *parser) term() expr {
	return p.binary(p.factor, tkMinus, tkPlus)
}

func (p *parser) factor() expr {
	return p.binary(p.unary, tkSlash, tkStar)
}

// binary parses a left-associative chain of operands joined by any of operators
func (p *parser) binary(operand func() expr, operators ...TokenType) expr {
	e := operand()
	for p.match(operators...) {
		operator := p.previous()
		right := operand()
		e = &binaryExpr{
			left:     e,
			operator: operator,
			right:    right,
		}
	}
	return e
}

func (p *parser) unary() expr {
	if p.match(tkBang, tkMinus) {
		operator := p.previous()
		right := p.unary()
		return &unaryExpr{
			operator: operator,
			right:    right,
		}
	}
	return p.call()
}

func (p *parser) call() expr {
	e := p.primary()
	for {
		if p.match(tkLeftParen) {
			e = p.finishCall(e)
		} else if p.match(tkDot) {
			name := p.consume(tkIdentifier, errExpectProp)
			e = &getExpr{
				object: e,
				name:   name,
			}
		} else {
			break
		}
	}
	return e
}

func (p *parser) finishCall(callee expr) expr {
	arguments := make([]expr, 0)
	if !p.check(tkRightParen) {
		for {
			if len(arguments) >= maxFunctionParams {
				p.state.tokenError(errMaxArguments, p.peek())
			}
			arguments = append(arguments, p.expression())
			if !p.match(tkComma) {
				break
			}
		}
	}
	paren := p.consume(tkRightParen, errUnclosedArguments)
	return &callExpr{
		callee:    callee,
		paren:     paren,
		arguments: arguments,
	}
}

func (p *parser) primary() expr {
	if p.match(tkFalse) {
		return &literalExpr{value: false}
	}
	if p.match(tkTrue) {
		return &literalExpr{value: true}
	}
	if p.match(tkNil) {
		return &literalExpr{value: nil}
	}
	if p.match(tkNumber, tkString) {
		return &literalExpr{value: p.previous().literal}
	}
	if p.match(tkThis) {
		return &thisExpr{keyword: p.previous()}
	}
	if p.match(tkIdentifier) {
		return &variableExpr{name: p.previous()}
	}
	if p.match(tkLeftParen) {
		e := p.expression()
		p.consume(tkRightParen, errUnclosedParen)
		return &groupingExpr{expression: e}
	}

	p.state.fatalError(errExpectExpr, p.peek())
	return nil
}

func (p *parser) consume(tk TokenType, err error) *Token {
	if p.check(tk) {
		return p.advance()
	}
	p.state.fatalError(err, p.peek())
	return nil
}

func (p *parser) advance() *Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *parser) match(tokens ...TokenType) bool {
	for _, token := range tokens {
		if p.check(token) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *parser) check(token TokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().token == token
}

func (p *parser) peek() *Token {
	return &p.state.tokens[p.current]
}

func (p *parser) previous() *Token {
	return &p.state.tokens[p.current-1]
}

func (p *parser) isAtEnd() bool {
	return p.peek().token == tkEOF
}

// synchronize discards tokens until the start of the next statement
func (p *parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().token == tkSemicolon {
			return
		}
		switch p.peek().token {
		case tkClass, tkFun, tkVar, tkFor, tkIf, tkWhile, tkPrint, tkReturn:
			return
		}
		p.advance()
	}
}
