package oracle

// ConstraintInfo describes a hard or soft constraint family of the model.
type ConstraintInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// Constraint family ids.
const (
	C1TeacherConflict        = "C1_teacher_conflict"
	C2RoomConflict           = "C2_room_conflict"
	C3HoursRequirement       = "C3_hours_requirement"
	C4InstructorAvailability = "C4_instructor_availability"
	C7RoomCapacity           = "C7_room_capacity"
	C8OneSessionPerDay       = "C8_one_session_per_day"
	C9WeeklyConsistency      = "C9_weekly_consistency"
	S1StudentConflicts       = "S1_student_conflicts"
	S2InstructorCompactness  = "S2_instructor_compactness"
	S3PreferredTimeSlots     = "S3_preferred_time_slots"
	categoryHard             = "hard"
	categorySoft             = "soft"
)

// HardConstraints lists the hard constraint families.
var HardConstraints = []ConstraintInfo{
	{C1TeacherConflict, "Instructor conflict", categoryHard, "An instructor teaches at most one session per period"},
	{C2RoomConflict, "Room conflict", categoryHard, "A room hosts at most one session per period"},
	{C3HoursRequirement, "Weekly hours", categoryHard, "Each course meets exactly its required number of sessions per week"},
	{C4InstructorAvailability, "Instructor availability", categoryHard, "No session is placed when its instructor is unavailable"},
	{C7RoomCapacity, "Room capacity", categoryHard, "A course only uses rooms with enough seats for its enrollment"},
	{C8OneSessionPerDay, "One session per day", categoryHard, "A course meets at most once per day"},
	{C9WeeklyConsistency, "Weekly consistency", categoryHard, "A course keeps the same weekly pattern in every week of the term"},
}

// SoftConstraints lists the soft penalty families.
var SoftConstraints = []ConstraintInfo{
	{S1StudentConflicts, "Student conflicts", categorySoft, "Penalty per student enrolled in two courses meeting at the same time"},
	{S2InstructorCompactness, "Instructor compactness", categorySoft, "Penalty per idle period between an instructor's sessions on a day"},
	{S3PreferredTimeSlots, "Preferred time slots", categorySoft, "Penalty per session placed during lunch or in the evening"},
}

// LookupConstraint finds a hard or soft constraint family by id.
func LookupConstraint(id string) (ConstraintInfo, bool) {
	for _, list := range [][]ConstraintInfo{HardConstraints, SoftConstraints} {
		for _, info := range list {
			if info.ID == id {
				return info, true
			}
		}
	}
	return ConstraintInfo{}, false
}
