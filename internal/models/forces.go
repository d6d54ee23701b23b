package models

// forceList is the fixed set of UK police forces and partner organisations an
// amendment can be raised against. Order matters: it is the dropdown order.
var forceList = []string{
	"Avon And Somerset",
	"Bedfordshire, Cambridgeshire & Hertfordshire",
	"British Transport",
	"Cheshire",
	"Cleveland",
	"Cumbria",
	"Derbyshire",
	"Devon And Cornwall",
	"Durham",
	"Essex",
	"Gloucestershire",
	"Greater Manchester",
	"Gwent",
	"Hampshire",
	"Kent",
	"Lancashire",
	"Leicestershire",
	"Lincolnshire",
	"Merseyside",
	"Metropolitan",
	"Norfolk & Suffolk",
	"North Wales",
	"North Yorkshire",
	"Northumbria",
	"Nottinghamshire",
	"Police Scotland",
	"South Yorkshire",
	"Staffordshire",
	"Surrey",
	"Sussex",
	"Warwickshire & West Mercia",
	"West Midlands",
	"West Yorkshire",
	"Wiltshire",
	"FIS",
	"Home Office",
	"IPCC",
	"MOD",
	"NCUG",
	"PIRC",
	"UA",
}

var forceSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(forceList))
	for _, f := range forceList {
		m[f] = struct{}{}
	}
	return m
}()

// AllForces returns the force list in display order.
func AllForces() []string {
	out := make([]string, len(forceList))
	copy(out, forceList)
	return out
}

// IsValidForce reports whether name is in the force list. Matching is exact.
func IsValidForce(name string) bool {
	_, ok := forceSet[name]
	return ok
}
