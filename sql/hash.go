package sql

import "github.com/mitchellh/hashstructure"

// queryFingerprint is the hashable shape of an analyzed query: the
// printed form of every clause. Printed forms are stable across
// processes, unlike pointers, so the hash can key a plan cache.
type queryFingerprint struct {
	Stmt     string
	Distinct bool
	Targets  []string
	Tables   []string
	Where    string
	GroupBy  []string
	Having   string
	OrderBy  []string
	Limit    int64
	Offset   int64
	UnionAll bool
	Next     *queryFingerprint
}

func fingerprintOf(q *Query) *queryFingerprint {
	if q == nil {
		return nil
	}

	fp := &queryFingerprint{
		Stmt:     q.StmtType().String(),
		Distinct: q.IsDistinct(),
		Limit:    q.Limit(),
		Offset:   q.Offset(),
		UnionAll: q.IsUnionAll(),
		Next:     fingerprintOf(q.Next()),
	}
	for _, te := range q.TargetList() {
		fp.Targets = append(fp.Targets, te.String())
	}
	for _, rte := range q.RangeTable() {
		fp.Tables = append(fp.Tables, rte.TableName()+" "+rte.RangeVar())
	}
	if q.Where() != nil {
		fp.Where = q.Where().String()
	}
	for _, g := range q.GroupBy() {
		fp.GroupBy = append(fp.GroupBy, g.String())
	}
	if q.Having() != nil {
		fp.Having = q.Having().String()
	}
	for _, oe := range q.OrderBy() {
		fp.OrderBy = append(fp.OrderBy, oe.String())
	}

	return fp
}

// Fingerprint returns a stable hash of an analyzed query, usable as a
// plan cache key. Two structurally identical queries hash equal.
func Fingerprint(q *Query) (uint64, error) {
	return hashstructure.Hash(fingerprintOf(q), nil)
}
