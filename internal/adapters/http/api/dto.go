package api

import (
	"time"

	service "github.com/cccmmm5858-cpu/astro-web/internal/app"
	"github.com/cccmmm5858-cpu/astro-web/internal/domain/episode"
	"github.com/cccmmm5858-cpu/astro-web/internal/domain/model"
	"github.com/cccmmm5858-cpu/astro-web/internal/domain/query"
	"github.com/cccmmm5858-cpu/astro-web/internal/domain/zodiac"
)

// timestampLayout renders the timezone-naive sample timestamps.
const timestampLayout = "2006-01-02 15:04:05"

type reportResponse struct {
	Subject    string            `json:"subject"`
	Resolved   string            `json:"resolved"`
	Date       string            `json:"date"`
	Score      int               `json:"score"`
	Tier       int               `json:"tier"`
	Stars      string            `json:"stars"`
	Rating     string            `json:"rating"`
	Active     bool              `json:"active"`
	Version    string            `json:"version,omitempty"`
	EventCount int               `json:"event_count"`
	Episodes   []episodeResponse `json:"episodes"`
	Events     []eventResponse   `json:"events,omitempty"`
}

type episodeResponse struct {
	TransitBody   zodiac.Body   `json:"transit_body"`
	NatalBody     zodiac.Body   `json:"natal_body"`
	Aspect        zodiac.Aspect `json:"aspect"`
	Symbol        string        `json:"symbol"`
	Start         string        `json:"start"`
	End           string        `json:"end"`
	Peak          string        `json:"peak"`
	Hours         float64       `json:"hours"`
	Continuous    bool          `json:"continuous"`
	Members       int           `json:"members"`
	ExactAngle    float64       `json:"exact_angle"`
	Deviation     float64       `json:"deviation"`
	TransitSign   zodiac.Sign   `json:"transit_sign"`
	TransitDegree float64       `json:"transit_degree"`
	Dignity       string        `json:"dignity,omitempty"`
	NatalSign     zodiac.Sign   `json:"natal_sign"`
	NatalDegree   float64       `json:"natal_degree"`
	Timeframe     string        `json:"timeframe,omitempty"`
}

type eventResponse struct {
	Timestamp     string        `json:"timestamp"`
	TransitBody   zodiac.Body   `json:"transit_body"`
	TransitDegree float64       `json:"transit_degree"`
	NatalBody     zodiac.Body   `json:"natal_body"`
	NatalDegree   float64       `json:"natal_degree"`
	Aspect        zodiac.Aspect `json:"aspect"`
	Deviation     float64       `json:"deviation"`
}

func formatTimestamp(t time.Time) string { return t.Format(timestampLayout) }

func newReportResponse(rep service.Report, withEvents bool) reportResponse {
	out := reportResponse{
		Subject:    rep.Subject,
		Resolved:   rep.Resolved,
		Date:       rep.Day.Format(query.DateLayout),
		Score:      rep.Result.Score,
		Tier:       int(rep.Result.Tier),
		Stars:      rep.Result.Tier.Stars(),
		Rating:     rep.Result.Label,
		Active:     rep.Result.Active(),
		Version:    rep.Version,
		EventCount: len(rep.Events),
		Episodes:   make([]episodeResponse, 0, len(rep.Episodes)),
	}
	for _, ep := range rep.Episodes {
		out.Episodes = append(out.Episodes, newEpisodeResponse(ep))
	}
	if withEvents {
		out.Events = make([]eventResponse, 0, len(rep.Events))
		for _, ev := range rep.Events {
			out.Events = append(out.Events, newEventResponse(ev))
		}
	}
	return out
}

func newEpisodeResponse(ep episode.Episode) episodeResponse {
	return episodeResponse{
		TransitBody:   ep.TransitBody,
		NatalBody:     ep.NatalBody,
		Aspect:        ep.Aspect,
		Symbol:        ep.Symbol,
		Start:         formatTimestamp(ep.Start),
		End:           formatTimestamp(ep.End),
		Peak:          formatTimestamp(ep.Representative.Timestamp),
		Hours:         ep.Hours,
		Continuous:    ep.Continuous,
		Members:       ep.Members,
		ExactAngle:    ep.Representative.ExactAngle,
		Deviation:     ep.Representative.Deviation,
		TransitSign:   ep.TransitSign,
		TransitDegree: ep.TransitDegree,
		Dignity:       ep.Dignity.String(),
		NatalSign:     ep.NatalSign,
		NatalDegree:   ep.NatalDegree,
		Timeframe:     ep.Timeframe,
	}
}

func newEventResponse(ev model.AspectEvent) eventResponse {
	return eventResponse{
		Timestamp:     formatTimestamp(ev.Timestamp),
		TransitBody:   ev.TransitBody,
		TransitDegree: ev.TransitDegree,
		NatalBody:     ev.NatalBody,
		NatalDegree:   ev.NatalDegree,
		Aspect:        ev.Aspect,
		Deviation:     ev.Deviation,
	}
}
