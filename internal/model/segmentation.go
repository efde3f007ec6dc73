package model

const (
	ColUserID      = "user_id"
	ColBodySection = "BodySection"
	ColOrganSystem = "OrganSystem"
	ColStructure   = "Structure"
)

// KeyColumns are required in every group table.
var KeyColumns = []string{ColBodySection, ColOrganSystem, ColStructure}

type GroupKey struct {
	UserID      int64
	BodySection string
	OrganSystem string
	Structure   string
}

type GroupRow struct {
	UserID      int64             `db:"user_id"`
	BodySection string            `db:"BodySection"`
	OrganSystem string            `db:"OrganSystem"`
	Structure   string            `db:"Structure"`
	Extra       map[string]string `db:"-"`
}

func (r GroupRow) Key() GroupKey {
	return GroupKey{
		UserID:      r.UserID,
		BodySection: r.BodySection,
		OrganSystem: r.OrganSystem,
		Structure:   r.Structure,
	}
}

// Value returns the row's value for column, or "" when the row has none.
func (r GroupRow) Value(column string) string {
	switch column {
	case ColBodySection:
		return r.BodySection
	case ColOrganSystem:
		return r.OrganSystem
	case ColStructure:
		return r.Structure
	}
	return r.Extra[column]
}

// SetValue stores v under column. user_id is not a string column and is
// ignored here.
func (r *GroupRow) SetValue(column, v string) {
	switch column {
	case ColUserID:
	case ColBodySection:
		r.BodySection = v
	case ColOrganSystem:
		r.OrganSystem = v
	case ColStructure:
		r.Structure = v
	default:
		if r.Extra == nil {
			r.Extra = make(map[string]string)
		}
		r.Extra[column] = v
	}
}

// GroupTable is an ordered set of group rows. Columns lists every column in
// table order, user_id included.
type GroupTable struct {
	Columns []string
	Rows    []GroupRow
}

func (t *GroupTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// DescriptiveColumns returns Columns without user_id.
func (t *GroupTable) DescriptiveColumns() []string {
	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if c != ColUserID {
			cols = append(cols, c)
		}
	}
	return cols
}

func (t *GroupTable) Clone() *GroupTable {
	if t == nil {
		return nil
	}
	out := &GroupTable{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]GroupRow, len(t.Rows)),
	}
	for i, r := range t.Rows {
		if r.Extra != nil {
			extra := make(map[string]string, len(r.Extra))
			for k, v := range r.Extra {
				extra[k] = v
			}
			r.Extra = extra
		}
		out.Rows[i] = r
	}
	return out
}
