package pipeline

import "domicilios/internal"

// Aggregator folds accepted records into one entry per identity. The first
// record seen for an identity fixes its name, address and phone.
type Aggregator struct {
	order []string
	users map[string]*internal.AggregatedUserRecord
}

func NewAggregator() *Aggregator {
	return &Aggregator{users: map[string]*internal.AggregatedUserRecord{}}
}

func (a *Aggregator) Add(rec internal.LoanRequestRecord) {
	if existing, ok := a.users[rec.Identity]; ok {
		existing.Items = append(existing.Items, rec.Item)
		return
	}
	a.order = append(a.order, rec.Identity)
	a.users[rec.Identity] = &internal.AggregatedUserRecord{
		Identity: rec.Identity,
		Name:     rec.Name,
		Address:  rec.Address,
		Phone:    rec.Phone,
		Items:    []string{rec.Item},
	}
}

func (a *Aggregator) Lookup(identity string) (internal.AggregatedUserRecord, bool) {
	u, ok := a.users[identity]
	if !ok {
		return internal.AggregatedUserRecord{}, false
	}
	return cloneUser(*u), true
}

func (a *Aggregator) Len() int {
	return len(a.order)
}

// Users returns copies in first-seen order.
func (a *Aggregator) Users() []internal.AggregatedUserRecord {
	out := make([]internal.AggregatedUserRecord, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, cloneUser(*a.users[id]))
	}
	return out
}

func cloneUser(u internal.AggregatedUserRecord) internal.AggregatedUserRecord {
	u.Items = append([]string(nil), u.Items...)
	return u
}
