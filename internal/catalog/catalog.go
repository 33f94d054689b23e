// Package catalog holds the fixed massage service menu. The table is static
// and loaded once; reloading at runtime is out of scope.
package catalog

// Entry describes one massage service.
type Entry struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Duration    int     `json:"duration"` // minutes
	Description string  `json:"description"`
}

// bookableCount is how many leading entries form the bookable menu exposed by
// the services endpoint. The trailing entries exist for pricing lookups only.
const bookableCount = 8

var entries = []Entry{
	{Name: "Swedish Massage", Price: 85, Duration: 60, Description: "Relaxing full-body massage"},
	{Name: "Deep Tissue Massage", Price: 110, Duration: 60, Description: "Intense massage for muscle relief"},
	{Name: "Hot Stone Massage", Price: 125, Duration: 75, Description: "Massage with heated stones"},
	{Name: "Neck and Shoulder Massage", Price: 65, Duration: 30, Description: "Targeted upper body massage"},
	{Name: "Aromatherapy Massage", Price: 95, Duration: 60, Description: "Massage with essential oils"},
	{Name: "Thai Massage", Price: 100, Duration: 60, Description: "Traditional Thai stretching massage"},
	{Name: "Sports Massage", Price: 120, Duration: 60, Description: "Massage for athletes and active people"},
	{Name: "Prenatal Massage", Price: 90, Duration: 60, Description: "Safe massage for expecting mothers"},
	{Name: "Reflexology", Price: 70, Duration: 45, Description: "Pressure-point foot massage"},
	{Name: "Full Body Relaxation", Price: 140, Duration: 90, Description: "Extended head-to-toe relaxation session"},
}

// Entries returns the full ordered pricing table.
func Entries() []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// Services returns the bookable menu in listing order.
func Services() []Entry {
	out := make([]Entry, bookableCount)
	copy(out, entries[:bookableCount])
	return out
}

// Find returns the entry with the given name.
func Find(name string) (Entry, bool) {
	for _, e := range entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}
