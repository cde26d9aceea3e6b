package query

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/whatif/internal/schedule"
)

// Request is one user intent. Request is a sealed interface: only types in
// this package implement it.
type Request interface {
	Kind() Kind
	sealedRequest()
}

// EnforceTimeSlotRequest pins a course to a (day, period), optionally in one week.
type EnforceTimeSlotRequest struct {
	CourseID string
	Day      string
	Period   int
	Week     *int
}

// EnforceDayRequest requires a course to meet on a day.
type EnforceDayRequest struct {
	CourseID string
	Day      string
}

// EnforceRoomRequest requires a course to meet in a room.
type EnforceRoomRequest struct {
	CourseID string
	RoomID   string
}

// EnforceBeforeTimeRequest requires a course to finish before a period.
type EnforceBeforeTimeRequest struct {
	CourseID string
	Period   int
}

// EnforceAfterTimeRequest requires a course to start at or after a period.
type EnforceAfterTimeRequest struct {
	CourseID string
	Period   int
}

// EnforceNoLunchRequest keeps a course out of the lunch window.
type EnforceNoLunchRequest struct {
	CourseID string
}

// EnforceConsecutiveRequest requires NextCourseID right after CourseID.
type EnforceConsecutiveRequest struct {
	CourseID     string
	NextCourseID string
}

// VetoTimeSlotRequest forbids a course at a (day, period).
type VetoTimeSlotRequest struct {
	CourseID string
	Day      string
	Period   int
	Week     *int
}

// VetoDayRequest forbids a day for one course, or for every course of an
// instructor. Exactly one of CourseID and InstructorID is set.
type VetoDayRequest struct {
	CourseID     string
	InstructorID string
	Day          string
}

// VetoRoomRequest forbids a room for a course.
type VetoRoomRequest struct {
	CourseID string
	RoomID   string
}

// VetoLunchRequest keeps one course, or every course when CourseID is
// empty, out of the lunch window.
type VetoLunchRequest struct {
	CourseID string
}

// VetoInstructorDayRequest forbids a day for every course of an instructor.
type VetoInstructorDayRequest struct {
	InstructorID string
	Day          string
}

// SwapTimeSlotsRequest exchanges two courses' current time slots.
type SwapTimeSlotsRequest struct {
	CourseA string
	CourseB string
	Current *schedule.Schedule
}

// SwapRoomsRequest exchanges two courses' current rooms.
type SwapRoomsRequest struct {
	CourseA string
	CourseB string
	Current *schedule.Schedule
}

func (*EnforceTimeSlotRequest) Kind() Kind    { return EnforceTimeSlot }
func (*EnforceDayRequest) Kind() Kind         { return EnforceDay }
func (*EnforceRoomRequest) Kind() Kind        { return EnforceRoom }
func (*EnforceBeforeTimeRequest) Kind() Kind  { return EnforceBeforeTime }
func (*EnforceAfterTimeRequest) Kind() Kind   { return EnforceAfterTime }
func (*EnforceNoLunchRequest) Kind() Kind     { return EnforceNoLunch }
func (*EnforceConsecutiveRequest) Kind() Kind { return EnforceConsecutive }
func (*VetoTimeSlotRequest) Kind() Kind       { return VetoTimeSlot }
func (*VetoDayRequest) Kind() Kind            { return VetoDay }
func (*VetoRoomRequest) Kind() Kind           { return VetoRoom }
func (*VetoLunchRequest) Kind() Kind          { return VetoLunch }
func (*VetoInstructorDayRequest) Kind() Kind  { return VetoInstructorDay }
func (*SwapTimeSlotsRequest) Kind() Kind      { return SwapTimeSlots }
func (*SwapRoomsRequest) Kind() Kind          { return SwapRooms }

func (*EnforceTimeSlotRequest) sealedRequest()    {}
func (*EnforceDayRequest) sealedRequest()         {}
func (*EnforceRoomRequest) sealedRequest()        {}
func (*EnforceBeforeTimeRequest) sealedRequest()  {}
func (*EnforceAfterTimeRequest) sealedRequest()   {}
func (*EnforceNoLunchRequest) sealedRequest()     {}
func (*EnforceConsecutiveRequest) sealedRequest() {}
func (*VetoTimeSlotRequest) sealedRequest()       {}
func (*VetoDayRequest) sealedRequest()            {}
func (*VetoRoomRequest) sealedRequest()           {}
func (*VetoLunchRequest) sealedRequest()          {}
func (*VetoInstructorDayRequest) sealedRequest()  {}
func (*SwapTimeSlotsRequest) sealedRequest()      {}
func (*SwapRoomsRequest) sealedRequest()          {}

// Parameter names accepted by ParseRequest.
const (
	ParamCourseID        = "course_id"
	ParamCourseID1       = "course_id_1"
	ParamCourseID2       = "course_id_2"
	ParamInstructorID    = "instructor_id"
	ParamDay             = "day"
	ParamPeriod          = "period"
	ParamPeriodStart     = "period_start"
	ParamPeriodBefore    = "period_before"
	ParamPeriodAfter     = "period_after"
	ParamWeek            = "week"
	ParamRoomID          = "room_id"
	ParamCurrentSchedule = "current_schedule"
)

// ParseRequest builds the typed request for kind from loosely typed
// parameters. Numbers may arrive as JSON numbers or decimal strings.
func ParseRequest(kind string, params map[string]any) (Request, error) {
	k, err := ParseKind(kind)
	if err != nil {
		return nil, err
	}
	p := paramReader{kind: k, params: params}

	var req Request
	switch k {
	case EnforceTimeSlot:
		req = &EnforceTimeSlotRequest{
			CourseID: p.str(ParamCourseID),
			Day:      p.str(ParamDay),
			Period:   p.num(ParamPeriod, ParamPeriodStart),
			Week:     p.optNum(ParamWeek),
		}
	case EnforceDay:
		req = &EnforceDayRequest{CourseID: p.str(ParamCourseID), Day: p.str(ParamDay)}
	case EnforceRoom:
		req = &EnforceRoomRequest{CourseID: p.str(ParamCourseID), RoomID: p.str(ParamRoomID)}
	case EnforceBeforeTime:
		req = &EnforceBeforeTimeRequest{CourseID: p.str(ParamCourseID), Period: p.num(ParamPeriodBefore)}
	case EnforceAfterTime:
		req = &EnforceAfterTimeRequest{CourseID: p.str(ParamCourseID), Period: p.num(ParamPeriodAfter)}
	case EnforceNoLunch:
		req = &EnforceNoLunchRequest{CourseID: p.str(ParamCourseID)}
	case EnforceConsecutive:
		req = &EnforceConsecutiveRequest{CourseID: p.str(ParamCourseID), NextCourseID: p.str(ParamCourseID2)}
	case VetoTimeSlot:
		req = &VetoTimeSlotRequest{
			CourseID: p.str(ParamCourseID),
			Day:      p.str(ParamDay),
			Period:   p.num(ParamPeriod, ParamPeriodStart),
			Week:     p.optNum(ParamWeek),
		}
	case VetoDay:
		course := p.optStr(ParamCourseID)
		instructor := p.optStr(ParamInstructorID)
		if course == "" && instructor == "" {
			p.fail(missing(k, ParamCourseID+" or "+ParamInstructorID))
		}
		req = &VetoDayRequest{CourseID: course, InstructorID: instructor, Day: p.str(ParamDay)}
	case VetoRoom:
		req = &VetoRoomRequest{CourseID: p.str(ParamCourseID), RoomID: p.str(ParamRoomID)}
	case VetoLunch:
		req = &VetoLunchRequest{CourseID: p.optStr(ParamCourseID)}
	case VetoInstructorDay:
		req = &VetoInstructorDayRequest{InstructorID: p.str(ParamInstructorID), Day: p.str(ParamDay)}
	case SwapTimeSlots:
		req = &SwapTimeSlotsRequest{
			CourseA: p.str(ParamCourseID1, ParamCourseID),
			CourseB: p.str(ParamCourseID2),
			Current: p.schedule(ParamCurrentSchedule),
		}
	case SwapRooms:
		req = &SwapRoomsRequest{
			CourseA: p.str(ParamCourseID1, ParamCourseID),
			CourseB: p.str(ParamCourseID2),
			Current: p.schedule(ParamCurrentSchedule),
		}
	}

	if p.err != nil {
		return nil, p.err
	}
	return req, nil
}

// paramReader extracts typed values and remembers the first failure.
type paramReader struct {
	kind   Kind
	params map[string]any
	err    error
}

func (p *paramReader) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

// lookup returns the first present, non-empty value among names.
func (p *paramReader) lookup(names ...string) (any, bool) {
	for _, name := range names {
		v, ok := p.params[name]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			continue
		}
		return v, true
	}
	return nil, false
}

func (p *paramReader) str(names ...string) string {
	v, ok := p.lookup(names...)
	if !ok {
		p.fail(missing(p.kind, names[0]))
		return ""
	}
	return fmt.Sprint(v)
}

func (p *paramReader) optStr(name string) string {
	v, ok := p.lookup(name)
	if !ok {
		return ""
	}
	return fmt.Sprint(v)
}

func (p *paramReader) num(names ...string) int {
	v, ok := p.lookup(names...)
	if !ok {
		p.fail(missing(p.kind, names[0]))
		return 0
	}
	n, err := coerceInt(v)
	if err != nil {
		p.fail(&Error{Code: ErrCodeMissingParameter, Message: fmt.Sprintf("parameter %q: %v", names[0], err), Kind: p.kind, Parameter: names[0]})
	}
	return n
}

func (p *paramReader) optNum(name string) *int {
	v, ok := p.lookup(name)
	if !ok {
		return nil
	}
	n, err := coerceInt(v)
	if err != nil {
		p.fail(&Error{Code: ErrCodeMissingParameter, Message: fmt.Sprintf("parameter %q: %v", name, err), Kind: p.kind, Parameter: name})
		return nil
	}
	return &n
}

func (p *paramReader) schedule(name string) *schedule.Schedule {
	v, ok := p.lookup(name)
	if !ok {
		p.fail(missing(p.kind, name))
		return nil
	}
	s, err := coerceSchedule(v)
	if err != nil {
		p.fail(&Error{Code: ErrCodeMissingParameter, Message: fmt.Sprintf("parameter %q: %v", name, err), Kind: p.kind, Parameter: name})
	}
	return s
}

func coerceInt(v any) (int, error) {
	if s, ok := v.(string); ok {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0, fmt.Errorf("expected integer, got %q", s)
		}
		return n, nil
	}
	return toInt(v)
}

// coerceSchedule accepts a schedule value, a bare assignment list, or their
// generic JSON forms.
func coerceSchedule(v any) (*schedule.Schedule, error) {
	switch s := v.(type) {
	case *schedule.Schedule:
		return s, nil
	case schedule.Schedule:
		return &s, nil
	case []schedule.Assignment:
		return &schedule.Schedule{Assignments: s}, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode schedule: %w", err)
	}
	if _, isList := v.([]any); isList {
		var assignments []schedule.Assignment
		if err := json.Unmarshal(data, &assignments); err != nil {
			return nil, fmt.Errorf("decode schedule: %w", err)
		}
		return &schedule.Schedule{Assignments: assignments}, nil
	}
	var out schedule.Schedule
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode schedule: %w", err)
	}
	return &out, nil
}
