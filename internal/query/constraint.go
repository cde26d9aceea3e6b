package query

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"

	"github.com/roach88/whatif/internal/canon"
)

// Record keys of a serialized constraint.
const (
	KeyType         = "type"
	KeyCourseID     = "course_id"
	KeyInstructorID = "instructor_id"
	KeyWeek         = "week"
	KeyDay          = "day"
	KeyPeriodStart  = "period_start"
	KeyPeriodEnd    = "period_end"
	KeyRoomID       = "room_id"
	KeyCourseID2    = "course_id_2"
)

var recordKeys = []string{
	KeyType, KeyCourseID, KeyInstructorID, KeyWeek, KeyDay,
	KeyPeriodStart, KeyPeriodEnd, KeyRoomID, KeyCourseID2,
}

// Constraint is one atomic query constraint handed to the oracle.
//
// Zero-valued string fields and nil pointers mean "absent". Use the
// per-kind constructors; the With* builders return modified copies.
type Constraint struct {
	Kind         Kind
	CourseID     string
	InstructorID string
	Week         *int
	Day          string
	PeriodStart  *int
	PeriodEnd    *int
	RoomID       string
	CourseID2    string
	Extra        map[string]any
}

func intPtr(n int) *int { return &n }

// NewEnforceTimeSlot requires a course at (day, period).
func NewEnforceTimeSlot(courseID, day string, period int) Constraint {
	return Constraint{Kind: EnforceTimeSlot, CourseID: courseID, Day: day, PeriodStart: intPtr(period)}
}

// NewEnforceDay requires a course to meet on a day.
func NewEnforceDay(courseID, day string) Constraint {
	return Constraint{Kind: EnforceDay, CourseID: courseID, Day: day}
}

// NewEnforceRoom requires a course to meet in a room.
func NewEnforceRoom(courseID, roomID string) Constraint {
	return Constraint{Kind: EnforceRoom, CourseID: courseID, RoomID: roomID}
}

// NewEnforceBeforeTime requires every session of a course to end by the
// start of period periodEnd.
func NewEnforceBeforeTime(courseID string, periodEnd int) Constraint {
	return Constraint{Kind: EnforceBeforeTime, CourseID: courseID, PeriodEnd: intPtr(periodEnd)}
}

// NewEnforceAfterTime requires every session of a course to start at or
// after period periodStart.
func NewEnforceAfterTime(courseID string, periodStart int) Constraint {
	return Constraint{Kind: EnforceAfterTime, CourseID: courseID, PeriodStart: intPtr(periodStart)}
}

// NewEnforceNoLunch keeps a course out of the lunch window.
func NewEnforceNoLunch(courseID string) Constraint {
	return Constraint{Kind: EnforceNoLunch, CourseID: courseID}
}

// NewEnforceConsecutive requires next to follow course in the next period.
func NewEnforceConsecutive(courseID, nextCourseID string) Constraint {
	return Constraint{Kind: EnforceConsecutive, CourseID: courseID, CourseID2: nextCourseID}
}

// NewVetoTimeSlot forbids a course at (day, period).
func NewVetoTimeSlot(courseID, day string, period int) Constraint {
	return Constraint{Kind: VetoTimeSlot, CourseID: courseID, Day: day, PeriodStart: intPtr(period)}
}

// NewVetoDay forbids a course on a day.
func NewVetoDay(courseID, day string) Constraint {
	return Constraint{Kind: VetoDay, CourseID: courseID, Day: day}
}

// NewVetoRoom forbids a course in a room.
func NewVetoRoom(courseID, roomID string) Constraint {
	return Constraint{Kind: VetoRoom, CourseID: courseID, RoomID: roomID}
}

// NewVetoLunch keeps a course out of the lunch window.
func NewVetoLunch(courseID string) Constraint {
	return Constraint{Kind: VetoLunch, CourseID: courseID}
}

// NewVetoInstructorDay forbids all of an instructor's courses on a day.
func NewVetoInstructorDay(instructorID, day string) Constraint {
	return Constraint{Kind: VetoInstructorDay, InstructorID: instructorID, Day: day}
}

// NewSwapTimeSlots records an unexpanded time-slot swap.
func NewSwapTimeSlots(courseA, courseB string) Constraint {
	return Constraint{Kind: SwapTimeSlots, CourseID: courseA, CourseID2: courseB}
}

// NewSwapRooms records an unexpanded room swap.
func NewSwapRooms(courseA, courseB string) Constraint {
	return Constraint{Kind: SwapRooms, CourseID: courseA, CourseID2: courseB}
}

// WithWeek returns a copy pinned to a week.
func (c Constraint) WithWeek(week int) Constraint {
	c.Week = intPtr(week)
	return c
}

// WithInstructor returns a copy attributed to an instructor.
func (c Constraint) WithInstructor(instructorID string) Constraint {
	c.InstructorID = instructorID
	return c
}

// WithExtra returns a copy carrying an extra kind-specific parameter.
func (c Constraint) WithExtra(key string, value any) Constraint {
	extra := make(map[string]any, len(c.Extra)+1)
	maps.Copy(extra, c.Extra)
	extra[key] = value
	c.Extra = extra
	return c
}

// Record returns the flat serialized form. Absent fields are nil.
func (c Constraint) Record() map[string]any {
	rec := make(map[string]any, len(recordKeys)+len(c.Extra))
	maps.Copy(rec, c.Extra)

	rec[KeyType] = string(c.Kind)
	rec[KeyCourseID] = optString(c.CourseID)
	rec[KeyInstructorID] = optString(c.InstructorID)
	rec[KeyWeek] = optInt(c.Week)
	rec[KeyDay] = optString(c.Day)
	rec[KeyPeriodStart] = optInt(c.PeriodStart)
	rec[KeyPeriodEnd] = optInt(c.PeriodEnd)
	rec[KeyRoomID] = optString(c.RoomID)
	rec[KeyCourseID2] = optString(c.CourseID2)
	return rec
}

func optString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func optInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

// MarshalJSON encodes the flat record.
func (c Constraint) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Record())
}

// UnmarshalJSON decodes a flat record. Unknown keys become extras.
func (c *Constraint) UnmarshalJSON(data []byte) error {
	var rec map[string]any
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	parsed, err := FromRecord(rec)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// FromRecord rebuilds a constraint from its flat record.
func FromRecord(rec map[string]any) (Constraint, error) {
	typ, _ := rec[KeyType].(string)
	kind, err := ParseKind(typ)
	if err != nil {
		return Constraint{}, err
	}

	c := Constraint{Kind: kind}
	var convErr error
	str := func(key string) string {
		switch v := rec[key].(type) {
		case nil:
			return ""
		case string:
			return v
		default:
			convErr = fmt.Errorf("constraint field %q: expected string, got %T", key, v)
			return ""
		}
	}
	num := func(key string) *int {
		v, ok := rec[key]
		if !ok || v == nil {
			return nil
		}
		n, err := toInt(v)
		if err != nil {
			convErr = fmt.Errorf("constraint field %q: %w", key, err)
			return nil
		}
		return &n
	}

	c.CourseID = str(KeyCourseID)
	c.InstructorID = str(KeyInstructorID)
	c.Week = num(KeyWeek)
	c.Day = str(KeyDay)
	c.PeriodStart = num(KeyPeriodStart)
	c.PeriodEnd = num(KeyPeriodEnd)
	c.RoomID = str(KeyRoomID)
	c.CourseID2 = str(KeyCourseID2)
	if convErr != nil {
		return Constraint{}, convErr
	}

	for k, v := range rec {
		if isRecordKey(k) {
			continue
		}
		if c.Extra == nil {
			c.Extra = make(map[string]any)
		}
		c.Extra[k] = v
	}
	return c, nil
}

func isRecordKey(k string) bool {
	for _, rk := range recordKeys {
		if rk == k {
			return true
		}
	}
	return false
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("expected integer, got %v", n)
		}
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		return int(i), err
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}

// Records serializes a constraint sequence.
func Records(cs []Constraint) []map[string]any {
	out := make([]map[string]any, len(cs))
	for i, c := range cs {
		out[i] = c.Record()
	}
	return out
}

// Fingerprint returns a content hash of an ordered constraint sequence.
func Fingerprint(cs []Constraint) (string, error) {
	return canon.Hash(canon.DomainConstraints, Records(cs))
}
