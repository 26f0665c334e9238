package theme

import (
	apperrors "github.com/alexisbeaulieu97/promptkit/pkg/errors"
)

// resolveInheritance fills t's unset fields from its parent. Registered
// parents are already resolved, so one level of copying covers the chain.
func (r *Registry) resolveInheritance(t *Theme) error {
	if t.InheritsFrom == "" {
		return nil
	}
	if t.InheritsFrom == t.Name {
		return cycleError(t.Name, []string{t.Name, t.Name})
	}

	parent, ok := r.themes[t.InheritsFrom]
	if !ok {
		return apperrors.New(apperrors.CodeNotFound, "parent theme not found", nil, map[string]interface{}{
			"theme":  t.Name,
			"parent": t.InheritsFrom,
		})
	}

	chain := []string{t.Name, parent.Name}
	for ancestor := parent; ancestor.InheritsFrom != ""; {
		if ancestor.InheritsFrom == t.Name {
			return cycleError(t.Name, append(chain, t.Name))
		}
		if len(chain) > MaxInheritanceDepth {
			return apperrors.New(apperrors.CodeInvalidState, "inheritance chain too deep", nil, map[string]interface{}{
				"theme": t.Name,
				"chain": chain,
				"limit": MaxInheritanceDepth,
			})
		}
		next, ok := r.themes[ancestor.InheritsFrom]
		if !ok {
			break
		}
		chain = append(chain, next.Name)
		ancestor = next
	}

	inherit(t, parent)
	return nil
}

func inherit(child, parent *Theme) {
	child.Colors.FillFrom(&parent.Colors)
	child.Syntax.FillFrom(&parent.Syntax)
	child.Symbols.FillFrom(parent.Symbols)
	child.Layout.FillFrom(parent.Layout)
	if len(child.Segments) == 0 {
		child.Segments = append([]string(nil), parent.Segments...)
	}
	if child.Category == "" {
		child.Category = parent.Category
	}
	child.Capabilities |= parent.Capabilities & Inheritable
}

func cycleError(name string, path []string) error {
	return apperrors.New(apperrors.CodeInvalidState, "inheritance cycle detected", nil, map[string]interface{}{
		"theme": name,
		"path":  path,
	})
}
