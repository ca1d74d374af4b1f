package live

// Collection names clients can subscribe to. One mirror instance per name
// on the client side.
const (
	Users              = "users"
	Announcements      = "announcements"
	Courses            = "courses"
	Chat               = "chat"
	Grades             = "grades"
	AttendanceSessions = "attendance_sessions"
	AttendanceRecords  = "attendance_records"
	MaterialSections   = "material_sections"
	Materials          = "materials"
)

// All lists every subscribable collection. Notifications are per-user and
// fetched over plain HTTP instead of the shared stream.
var All = []string{
	Users, Announcements, Courses, Chat, Grades,
	AttendanceSessions, AttendanceRecords, MaterialSections, Materials,
}
