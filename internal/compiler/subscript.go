package compiler

import (
	"github.com/roach88/jitfront/internal/ir"
	"github.com/roach88/jitfront/internal/syntax"
)

// subscript handles the three subscript forms. A tuple written as a plain
// index is N-dimensional indexing sugar: x[(i, j)] is x[i, j]. A list in
// the same position is advanced indexing and is passed through as one
// index; nested in an extended slice it is rejected.
func (b *builder) subscript(e *syntax.Subscript) (ir.Expr, error) {
	base, err := b.expr(e.Value)
	if err != nil {
		return nil, err
	}

	switch sl := e.Slice.(type) {
	case *syntax.Index:
		if tup, ok := sl.Value.(*syntax.Tuple); ok {
			indices, err := b.exprs(tup.Elts)
			if err != nil {
				return nil, err
			}
			return &ir.Subscript{Value: base, Subscripts: indices}, nil
		}
		index, err := b.expr(sl.Value)
		if err != nil {
			return nil, err
		}
		return &ir.Subscript{Value: base, Subscripts: []ir.Expr{index}}, nil
	case *syntax.Slice:
		s, err := b.sliceExpr(base, sl)
		if err != nil {
			return nil, err
		}
		return &ir.Subscript{Value: base, Subscripts: []ir.Expr{s}}, nil
	case *syntax.ExtSlice:
		dims, err := b.extSlice(base, sl)
		if err != nil {
			return nil, err
		}
		return &ir.Subscript{Value: base, Subscripts: dims}, nil
	default:
		// A bare legacy `...` subscript has no other interpretation.
		return nil, notSupported(base.Range(), "ellipsis is not supported")
	}
}

// sliceExpr builds lower:upper:step. The slice has no position of its own
// and takes the base's range.
func (b *builder) sliceExpr(base ir.Expr, sl *syntax.Slice) (ir.Expr, error) {
	lower, err := b.optExpr(sl.Lower)
	if err != nil {
		return nil, err
	}
	upper, err := b.optExpr(sl.Upper)
	if err != nil {
		return nil, err
	}
	step, err := b.optExpr(sl.Step)
	if err != nil {
		return nil, err
	}
	return &ir.SliceExpr{Rng: base.Range(), Start: lower, End: upper, Step: step}, nil
}

func (b *builder) extSlice(base ir.Expr, ext *syntax.ExtSlice) ([]ir.Expr, error) {
	dims := make([]ir.Expr, 0, len(ext.Dims))
	for _, dim := range ext.Dims {
		switch d := dim.(type) {
		case *syntax.Index:
			switch d.Value.(type) {
			case *syntax.Tuple, *syntax.List:
				return nil, notSupported(base.Range(), "slicing multiple dimensions with sequences not supported yet")
			}
			index, err := b.expr(d.Value)
			if err != nil {
				return nil, err
			}
			dims = append(dims, index)
		case *syntax.Slice:
			s, err := b.sliceExpr(base, d)
			if err != nil {
				return nil, err
			}
			dims = append(dims, s)
		case *syntax.EllipsisSlice:
			dims = append(dims, &ir.Dots{Rng: base.Range()})
		default:
			return nil, notSupported(base.Range(), "slicing multiple dimensions with %s not supported", dim.KindName())
		}
	}
	return dims, nil
}
