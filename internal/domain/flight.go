package domain

type TravelType string

const (
	TravelDomestic      TravelType = "domestic"
	TravelInternational TravelType = "international"
)

type Flight struct {
	ID           int64      `json:"id,omitempty"`
	Airline      string     `json:"airline"`
	FlightNumber string     `json:"flightNumber"`
	FromCode     string     `json:"fromCode"`
	ToCode       string     `json:"toCode"`
	DepartTime   string     `json:"departTime"`
	ArriveTime   string     `json:"arriveTime"`
	Duration     string     `json:"duration"`
	Price        Money      `json:"price"`
	TravelType   TravelType `json:"travelType"`
	Date         string     `json:"date,omitempty"`
}

type TripType string

const (
	TripOneWay TripType = "oneWay"
	TripRound  TripType = "round"
)

// FlightSearch is a search request. Its leg fields identify one generated result set.
type FlightSearch struct {
	From       string     `form:"from" binding:"required,len=3"`
	To         string     `form:"to" binding:"required,len=3"`
	TravelType TravelType `form:"travelType" binding:"omitempty,oneof=domestic international"`
	Date       string     `form:"date" binding:"required"`
	TripType   TripType   `form:"tripType" binding:"omitempty,oneof=oneWay round"`
	ReturnDate string     `form:"returnDate"`
}

// Leg drops the trip fields so both directions of a round trip share the one-way cache.
func (q FlightSearch) Leg() FlightSearch {
	return FlightSearch{From: q.From, To: q.To, TravelType: q.TravelType, Date: q.Date}
}

// Reverse is the return leg of a round trip.
func (q FlightSearch) Reverse() FlightSearch {
	return FlightSearch{From: q.To, To: q.From, TravelType: q.TravelType, Date: q.ReturnDate}
}

type RoundTrip struct {
	Outbound []Flight `json:"outbound"`
	Return   []Flight `json:"return"`
}

// RegionBounds is a latitude/longitude box.
type RegionBounds struct {
	LaMin *float64 `form:"lamin" binding:"required"`
	LoMin *float64 `form:"lomin" binding:"required"`
	LaMax *float64 `form:"lamax" binding:"required"`
	LoMax *float64 `form:"lomax" binding:"required"`
}

// FlightStatus is a simulated live position report.
type FlightStatus struct {
	FlightNumber string  `json:"flightNumber"`
	Status       string  `json:"status"`
	Altitude     int     `json:"altitude"`
	Speed        int     `json:"speed"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Heading      int     `json:"heading"`
	Timestamp    int64   `json:"timestamp"`
}
