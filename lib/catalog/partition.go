package catalog

// Partitions splits a record set by academic level, every record is in All
// and in exactly one of Undergraduate or Graduate.
type Partitions struct {
	All           []Record
	Undergraduate []Record
	Graduate      []Record
}

func Partition(records []Record) Partitions {
	p := Partitions{
		All:           records,
		Undergraduate: []Record{},
		Graduate:      []Record{},
	}
	if p.All == nil {
		p.All = []Record{}
	}
	for _, r := range records {
		if r.IsGraduate() {
			p.Graduate = append(p.Graduate, r)
			continue
		}
		p.Undergraduate = append(p.Undergraduate, r)
	}
	return p
}
