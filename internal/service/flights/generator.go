package flights

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/Domenick1991/airline-reservation/internal/domain"
	"github.com/samber/lo"
)

type airline struct {
	Name string
	Code string
}

var (
	domesticAirlines = []airline{
		{Name: "IndiGo", Code: "6E"},
		{Name: "Air India", Code: "AI"},
		{Name: "SpiceJet", Code: "SG"},
		{Name: "Vistara", Code: "UK"},
		{Name: "GoAir", Code: "G8"},
		{Name: "AirAsia India", Code: "I5"},
	}
	internationalAirlines = []airline{
		{Name: "Emirates", Code: "EK"},
		{Name: "Singapore Airlines", Code: "SQ"},
		{Name: "Qatar Airways", Code: "QR"},
		{Name: "Etihad Airways", Code: "EY"},
		{Name: "British Airways", Code: "BA"},
		{Name: "Lufthansa", Code: "LH"},
		{Name: "Air France", Code: "AF"},
		{Name: "Thai Airways", Code: "TG"},
	}
)

// Random is the source the generator draws from. *rand.Rand satisfies it.
type Random interface {
	IntN(n int) int
	Float64() float64
}

type globalRandom struct{}

func (globalRandom) IntN(n int) int   { return rand.IntN(n) }
func (globalRandom) Float64() float64 { return rand.Float64() }

// Generator produces mock schedules for a route.
type Generator struct {
	rnd Random
}

func NewGenerator(rnd Random) *Generator {
	if rnd == nil {
		rnd = globalRandom{}
	}
	return &Generator{rnd: rnd}
}

// Generate returns 3 to 6 flights sorted by departure time.
func (g *Generator) Generate(q domain.FlightSearch) []domain.Flight {
	airlines := domesticAirlines
	if q.TravelType == domain.TravelInternational {
		airlines = internationalAirlines
	}
	from, to := strings.ToUpper(q.From), strings.ToUpper(q.To)

	flights := lo.Times(g.rnd.IntN(4)+3, func(int) domain.Flight {
		a := airlines[g.rnd.IntN(len(airlines))]
		depart := g.clock()
		hours, minutes := g.duration(q.TravelType)
		return domain.Flight{
			Airline:      a.Name,
			FlightNumber: fmt.Sprintf("%s %d", a.Code, g.rnd.IntN(900)+100),
			FromCode:     from,
			ToCode:       to,
			DepartTime:   depart,
			ArriveTime:   arrivalTime(depart, hours, minutes),
			Duration:     fmt.Sprintf("%dh %dm", hours, minutes),
			Price:        g.price(q.TravelType),
			TravelType:   q.TravelType,
			Date:         q.Date,
		}
	})

	slices.SortStableFunc(flights, func(a, b domain.Flight) int {
		return strings.Compare(a.DepartTime, b.DepartTime)
	})
	return flights
}

// Track simulates a live position report.
func (g *Generator) Track(flightNumber string, timestamp int64) domain.FlightStatus {
	return domain.FlightStatus{
		FlightNumber: flightNumber,
		Status:       "in-flight",
		Altitude:     g.rnd.IntN(35000) + 10000,
		Speed:        g.rnd.IntN(500) + 400,
		Latitude:     g.rnd.Float64()*180 - 90,
		Longitude:    g.rnd.Float64()*360 - 180,
		Heading:      g.rnd.IntN(360),
		Timestamp:    timestamp,
	}
}

// regionCarriers are the callsign prefixes used for simulated regional traffic.
var regionCarriers = []string{"6E", "AI", "SG", "UK", "EK", "SQ", "BA"}

// Region simulates 5 aircraft positioned inside the box.
func (g *Generator) Region(laMin, loMin, laMax, loMax float64, timestamp int64) []domain.FlightStatus {
	return lo.Times(5, func(int) domain.FlightStatus {
		code := regionCarriers[g.rnd.IntN(len(regionCarriers))]
		return domain.FlightStatus{
			FlightNumber: fmt.Sprintf("%s%d", code, g.rnd.IntN(9000)+1000),
			Status:       "in-flight",
			Altitude:     g.rnd.IntN(35000) + 10000,
			Speed:        g.rnd.IntN(500) + 400,
			Latitude:     laMin + g.rnd.Float64()*(laMax-laMin),
			Longitude:    loMin + g.rnd.Float64()*(loMax-loMin),
			Heading:      g.rnd.IntN(360),
			Timestamp:    timestamp,
		}
	})
}

func (g *Generator) clock() string {
	return fmt.Sprintf("%02d:%02d", g.rnd.IntN(24), g.rnd.IntN(60))
}

// domestic legs last 1-3h, international 4-17h.
func (g *Generator) duration(t domain.TravelType) (int, int) {
	if t == domain.TravelInternational {
		return g.rnd.IntN(14) + 4, g.rnd.IntN(60)
	}
	return g.rnd.IntN(3) + 1, g.rnd.IntN(60)
}

// domestic fares are 2000-14999, international 300-1499, whole units.
func (g *Generator) price(t domain.TravelType) domain.Money {
	if t == domain.TravelInternational {
		return domain.Money(int64(g.rnd.IntN(1200)+300) * 100)
	}
	return domain.Money(int64(g.rnd.IntN(13000)+2000) * 100)
}

// arrivalTime adds the duration to an HH:MM departure; a "+N" suffix marks the day rollover.
func arrivalTime(depart string, hours, minutes int) string {
	var dh, dm int
	if _, err := fmt.Sscanf(depart, "%d:%d", &dh, &dm); err != nil {
		return "00:00"
	}
	total := dh*60 + dm + hours*60 + minutes
	days := total / (24 * 60)
	clock := fmt.Sprintf("%02d:%02d", (total/60)%24, total%60)
	if days > 0 {
		return fmt.Sprintf("%s +%d", clock, days)
	}
	return clock
}
