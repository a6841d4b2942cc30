package engine

import "github.com/shopspring/decimal"

// Context adalah peta variabel read-only untuk evaluasi formula.
// Setiap With mengembalikan salinan baru; context lama tidak pernah berubah,
// sehingga urutan data earnings -> gross -> deductions terlihat eksplisit di API.
type Context struct {
	vars map[string]decimal.Decimal
}

func NewContext() Context {
	return Context{vars: map[string]decimal.Decimal{}}
}

func (c Context) With(name string, v decimal.Decimal) Context {
	next := make(map[string]decimal.Decimal, len(c.vars)+1)
	for k, val := range c.vars {
		next[k] = val
	}
	next[name] = v
	return Context{vars: next}
}

func (c Context) WithInt(name string, v int) Context {
	return c.With(name, decimal.NewFromInt(int64(v)))
}

func (c Context) Lookup(name string) (decimal.Decimal, bool) {
	v, ok := c.vars[name]
	return v, ok
}

func (c Context) Len() int {
	return len(c.vars)
}
