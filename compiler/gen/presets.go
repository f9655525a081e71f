package gen

import (
	"github.com/syssam/zodgen/compiler/ts"
	"github.com/syssam/zodgen/typegraph"
)

// EnumsAsUnions emits enums inline as unions of their member literals,
// e.g. z.union([z.literal("a"), z.literal("b")]), instead of declaring a
// z.enum for each. Register it for typegraph.KindEnum or for single enums.
func EnumsAsUnions() CustomEmit {
	return CustomEmit{
		NoDeclaration: true,
		Reference: func(p *ReferenceProps) ts.Code {
			e, ok := p.Type.(*typegraph.Enum)
			if !ok {
				return p.Default
			}
			u := p.Zod.Types().UnionFromEnum(e)
			parts := p.Zod.BaseSchemaParts(u)
			parts = append(parts, p.MemberParts()...)
			parts = append(parts, p.DescriptionParts()...)
			return ts.Member(parts...)
		},
	}
}
