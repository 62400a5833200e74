package types

// IsDenotable reports whether t can be written in source: no captured
// variables, intersections, inference variables or null type anywhere.
func IsDenotable(t Type) bool {
	ok := true
	Walk(t, func(u Type) bool {
		switch u.(type) {
		case *Captured, *Intersection, *InferenceVar, *NullType:
			ok = false
		}
		return ok
	})
	return ok
}

// IsAccessible reports whether sym can be named from code in class from,
// which lives in package pkg. A nil from means top-level code in pkg.
func IsAccessible(sym *ClassSym, from *ClassSym, pkg string) bool {
	for c := sym; c != nil; c = c.Outer {
		if !memberAccessible(c, c.Visibility, c.Outer, from, pkg) {
			return false
		}
	}
	return true
}

// IsMemberAccessible reports whether a member of owner with visibility v is
// accessible from code in class from.
func IsMemberAccessible(v Visibility, owner *ClassSym, from *ClassSym, pkg string) bool {
	return IsAccessible(owner, from, pkg) && memberAccessible(owner, v, owner, from, pkg)
}

func memberAccessible(sym *ClassSym, v Visibility, owner *ClassSym, from *ClassSym, pkg string) bool {
	switch v {
	case VisibilityPublic, "":
		return true
	case VisibilityPrivate:
		if from == nil {
			return false
		}
		top := sym
		if owner != nil {
			top = owner
		}
		return top.TopLevel() == from.TopLevel()
	case VisibilityProtected:
		if sym.Package == pkg {
			return true
		}
		if owner == nil {
			owner = sym
		}
		for c := from; c != nil; c = c.Outer {
			if isSubclassSym(c, owner) {
				return true
			}
		}
		return false
	}
	return sym.Package == pkg
}

func isSubclassSym(c, of *ClassSym) bool {
	seen := map[*ClassSym]bool{}
	var walk func(*ClassSym) bool
	walk = func(c *ClassSym) bool {
		if c == nil || seen[c] {
			return false
		}
		if c == of {
			return true
		}
		seen[c] = true
		c.Complete()
		if c.Super != nil && walk(c.Super.Sym) {
			return true
		}
		for _, i := range c.Interfaces {
			if walk(i.Sym) {
				return true
			}
		}
		return false
	}
	return walk(c)
}

// IsTypeAccessible reports whether every class t mentions is accessible.
// It returns the first inaccessible class, or nil.
func IsTypeAccessible(t Type, from *ClassSym, pkg string) *ClassSym {
	var bad *ClassSym
	Walk(t, func(u Type) bool {
		if c, ok := u.(*ClassType); ok && !IsAccessible(c.Sym, from, pkg) {
			bad = c.Sym
		}
		if cv, ok := u.(*Captured); ok && cv.Upper != nil {
			if b := IsTypeAccessible(cv.Upper, from, pkg); b != nil {
				bad = b
			}
		}
		return bad == nil
	})
	return bad
}
