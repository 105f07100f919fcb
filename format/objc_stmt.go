package format

import (
	"strings"

	"github.com/dhamidi/j2objc/java/ast"
	"github.com/dhamidi/j2objc/java/types"
)

func (p *objcPrinter) stmt(id ast.NodeID) {
	if id == ast.NoNode {
		return
	}
	u := p.u
	n := u.Node(id)
	switch n.Kind {
	case ast.KindBlock:
		p.line("{")
		p.indent++
		for _, s := range u.Kids(id) {
			p.stmt(s)
		}
		p.indent--
		p.line("}")
	case ast.KindLocalVar:
		p.line("%s;", p.localVar(id))
	case ast.KindLocalTypeDecl, ast.KindEmpty:
		if n.Kind == ast.KindEmpty {
			p.line(";")
		}
	case ast.KindExprStmt:
		p.line("%s;", p.expr(u.Kid(id, 0)))
	case ast.KindIf:
		p.ifStmt(id)
	case ast.KindWhile:
		p.write("while (" + p.expr(u.Kid(id, 0)) + ") ")
		p.loopBody(id, u.Kid(id, 1))
	case ast.KindDo:
		p.write("do ")
		p.loopBodyOpen(id, u.Kid(id, 0))
		p.line("} while (%s);", p.expr(u.Kid(id, 1)))
	case ast.KindFor:
		p.forStmt(id)
	case ast.KindSwitch:
		p.switchStmt(id)
	case ast.KindReturn:
		if e := u.Kid(id, 0); e != ast.NoNode {
			p.line("return %s;", p.expr(e))
		} else {
			p.line("return;")
		}
	case ast.KindBreak, ast.KindContinue:
		p.jump(id)
	case ast.KindThrow:
		p.line("@throw %s;", p.expr(u.Kid(id, 0)))
	case ast.KindTry:
		p.tryStmt(id)
	case ast.KindSynchronized:
		p.write("@synchronized(" + p.expr(u.Kid(id, 0)) + ") ")
		p.block(u.Kid(id, 1))
	case ast.KindAssert:
		msg := "nil"
		if m := u.Kid(id, 1); m != ast.NoNode {
			msg = p.expr(m)
		}
		p.line("JreAssert(%s, %s);", p.expr(u.Kid(id, 0)), msg)
	case ast.KindLabeled:
		p.labeled(id)
	case ast.KindSuperCtorCall, ast.KindThisCtorCall:
		p.ctorCall(id)
	case ast.KindNativeStmt:
		p.raw(n.Value)
	default:
		p.fail("%s: cannot print statement %s", n.Pos, n.Kind)
	}
}

// block prints id as a braced block, wrapping a single statement.
func (p *objcPrinter) block(id ast.NodeID) {
	p.blockWith(id, "")
}

// blockWith prints id as a braced block. A non-empty label is placed as
// the last statement inside it.
func (p *objcPrinter) blockWith(id ast.NodeID, label string) {
	p.line("{")
	p.indent++
	p.blockContents(id)
	if label != "" {
		p.line("%s: ;", label)
	}
	p.indent--
	p.line("}")
}

func (p *objcPrinter) blockContents(id ast.NodeID) {
	if p.u.Kind(id) == ast.KindBlock {
		for _, s := range p.u.Kids(id) {
			p.stmt(s)
		}
		return
	}
	p.stmt(id)
}

func (p *objcPrinter) localVar(id ast.NodeID) string {
	n := p.u.Node(id)
	v := p.t.Var(n.Var)
	decl := p.declare(v.Type, p.namer.VarName(n.Var))
	if init := p.u.Kid(id, 0); init != ast.NoNode {
		return decl + " = " + p.expr(init)
	}
	return decl
}

func (p *objcPrinter) ifStmt(id ast.NodeID) {
	u := p.u
	p.write("if (" + p.expr(u.Kid(id, 0)) + ") ")
	then, els := u.Kid(id, 1), u.Kid(id, 2)
	if els == ast.NoNode {
		p.block(then)
		return
	}
	p.write("{")
	p.newline()
	p.indent++
	p.blockContents(then)
	p.indent--
	p.write("} else ")
	if u.Kind(els) == ast.KindIf {
		p.ifStmt(els)
		return
	}
	p.block(els)
}

// loopLabel returns the continue label of a loop that is the body of a
// Labeled statement.
func (p *objcPrinter) loopLabel(loop ast.NodeID) string {
	return p.labels[p.u.Parent(loop)].cont
}

func (p *objcPrinter) loopBody(loop, body ast.NodeID) {
	p.blockWith(body, p.loopLabel(loop))
}

// loopBodyOpen prints a loop body without its closing brace.
func (p *objcPrinter) loopBodyOpen(loop, body ast.NodeID) {
	p.line("{")
	p.indent++
	p.blockContents(body)
	if l := p.loopLabel(loop); l != "" {
		p.line("%s: ;", l)
	}
	p.indent--
}

func (p *objcPrinter) forStmt(id ast.NodeID) {
	u := p.u
	var init []string
	if in := u.Kid(id, 0); in != ast.NoNode {
		for i, k := range u.Kids(in) {
			if u.Kind(k) != ast.KindLocalVar {
				init = append(init, p.expr(k))
				continue
			}
			if i == 0 {
				init = append(init, p.localVar(k))
				continue
			}
			// Later declarators share the first one's type.
			decl := p.namer.VarName(u.Node(k).Var)
			if e := u.Kid(k, 0); e != ast.NoNode {
				decl += " = " + p.expr(e)
			}
			init = append(init, decl)
		}
	}
	cond := ""
	if c := u.Kid(id, 1); c != ast.NoNode {
		cond = p.expr(c)
	}
	var update []string
	if up := u.Kid(id, 2); up != ast.NoNode {
		for _, k := range u.Kids(up) {
			update = append(update, p.expr(k))
		}
	}
	p.write("for (" + strings.Join(init, ", ") + "; " + cond + "; " + strings.Join(update, ", ") + ") ")
	p.loopBody(id, u.Kid(id, 3))
}

// switchStmt prints a switch. Declarations directly inside the switch
// body are hoisted in front of it since C does not allow them after a
// case label. Enum switches dispatch on the ordinal, string switches on
// the index of the matching case string.
func (p *objcPrinter) switchStmt(id ast.NodeID) {
	u, t := p.u, p.t
	sel := u.Kid(id, 0)
	selType := u.Node(sel).Type
	body := u.KidsFrom(id, 1)

	var hoisted []ast.NodeID
	for _, k := range body {
		if u.Kind(k) == ast.KindLocalVar {
			hoisted = append(hoisted, k)
		}
	}
	if len(hoisted) > 0 {
		p.line("{")
		p.indent++
		for _, k := range hoisted {
			v := u.Node(k).Var
			p.line("%s;", p.declare(t.Var(v).Type, p.namer.VarName(v)))
		}
	}

	enum := t.DeclType(selType).IsEnum()
	str := t.IsString(selType)
	var cases []string
	strIndex := map[string]int{}
	if str {
		for _, k := range body {
			if u.Kind(k) != ast.KindSwitchCase || len(u.Kids(k)) == 0 {
				continue
			}
			s := p.expr(u.Kid(k, 0))
			if _, ok := strIndex[s]; !ok {
				strIndex[s] = len(cases)
				cases = append(cases, s)
			}
		}
	}

	switch {
	case enum:
		p.line("switch ([%s ordinal]) {", p.expr(sel))
	case str:
		p.line("switch (JreIndexOfStr(%s, (id[]){ %s }, %d)) {", p.expr(sel), joinComma(cases), len(cases))
	default:
		p.line("switch (%s) {", p.expr(sel))
	}
	p.indent++
	for _, k := range body {
		switch {
		case u.Kind(k) == ast.KindSwitchCase && len(u.Kids(k)) == 0:
			p.line("default:")
		case u.Kind(k) == ast.KindSwitchCase && enum:
			label := u.Kid(k, 0)
			p.line("case %s_Enum_%s:", p.namer.FullName(t.Decl(selType)), t.Var(u.Node(label).Var).Name)
		case u.Kind(k) == ast.KindSwitchCase && str:
			p.line("case %d:", strIndex[p.expr(u.Kid(k, 0))])
		case u.Kind(k) == ast.KindSwitchCase:
			p.line("case %s:", p.expr(u.Kid(k, 0)))
		case u.Kind(k) == ast.KindLocalVar:
			p.indent++
			if init := u.Kid(k, 0); init != ast.NoNode {
				p.line("%s = %s;", p.namer.VarName(u.Node(k).Var), p.expr(init))
			} else {
				p.line(";")
			}
			p.indent--
		default:
			p.indent++
			p.stmt(k)
			p.indent--
		}
	}
	p.indent--
	p.line("}")
	if len(hoisted) > 0 {
		p.indent--
		p.line("}")
	}
}

func joinComma(items []string) string {
	return strings.Join(items, ", ")
}

func (p *objcPrinter) tryStmt(id ast.NodeID) {
	u := p.u
	p.write("@try ")
	p.block(u.Kid(id, 1))
	for _, c := range u.KidsFrom(id, 3) {
		param := u.Node(u.Kid(c, 0))
		p.write("@catch (" + p.declare(param.Type, p.namer.VarName(param.Var)) + ") ")
		p.block(u.Kid(c, 1))
	}
	if fin := u.Kid(id, 2); fin != ast.NoNode {
		p.write("@finally ")
		p.fin.enter()
		p.block(fin)
		p.fin.leave()
	}
}

// usesLabel reports whether a break or continue under id targets label.
func (p *objcPrinter) usesLabel(id ast.NodeID, kind ast.Kind, label string) bool {
	found := false
	p.u.Walk(id, func(k ast.NodeID) bool {
		if n := p.u.Node(k); n.Kind == kind && n.Name == label {
			found = true
		}
		return !found && p.u.Kind(k) != ast.KindTypeDecl
	})
	return found
}

func isLoop(k ast.Kind) bool {
	switch k {
	case ast.KindWhile, ast.KindDo, ast.KindFor, ast.KindEnhancedFor:
		return true
	}
	return false
}

// labeled prints a labeled statement. Labeled break and continue become
// gotos: the break label follows the statement, the continue label ends
// the loop body.
func (p *objcPrinter) labeled(id ast.NodeID) {
	u := p.u
	n := u.Node(id)
	inner := u.Kid(id, 0)
	var l jumpLabels
	if p.usesLabel(inner, ast.KindBreak, n.Name) {
		l.brk = p.fin.label("break", n.Name)
	}
	if isLoop(u.Kind(inner)) && p.usesLabel(inner, ast.KindContinue, n.Name) {
		l.cont = p.fin.label("continue", n.Name)
	}
	p.labels[id] = l
	p.stmt(inner)
	if l.brk != "" {
		p.line("%s: ;", l.brk)
	}
}

func (p *objcPrinter) jump(id ast.NodeID) {
	u := p.u
	n := u.Node(id)
	keyword := "break"
	if n.Kind == ast.KindContinue {
		keyword = "continue"
	}
	if n.Name == "" {
		p.line("%s;", keyword)
		return
	}
	for cur := u.Parent(id); cur != ast.NoNode; cur = u.Parent(cur) {
		cn := u.Node(cur)
		if cn.Kind != ast.KindLabeled || cn.Name != n.Name {
			continue
		}
		target := p.labels[cur].brk
		if n.Kind == ast.KindContinue {
			target = p.labels[cur].cont
		}
		if target == "" {
			break
		}
		p.line("goto %s;", target)
		return
	}
	p.fail("%s: undefined label %s", n.Pos, n.Name)
}

// ctorCall prints super(...) or this(...) as a call of the constructor's
// function form.
func (p *objcPrinter) ctorCall(id ast.NodeID) {
	u, t := p.u, p.t
	n := u.Node(id)
	args := []string{"self"}
	for _, a := range u.KidsFrom(id, u.ArgOffset(id)) {
		args = append(args, p.expr(a))
	}
	if n.Kind == ast.KindSuperCtorCall && n.Method == types.NoMethod {
		return
	}
	fn := p.namer.FunctionName(n.Method)
	if t.Decl(t.Method(n.Method).Declaring) == t.ObjectType() {
		fn = "NSObject_init"
	}
	p.line("%s(%s);", fn, strings.Join(args, ", "))
}
