package helper

import "strings"

// Keys of the claims the auth middleware stores in Locals.
const (
	LocRawToken  = "raw_token"
	LocUserID    = "user_id"
	LocEmail     = "email"
	LocUserName  = "user_name"
	LocRoles     = "roles"
	LocStudentID = "student_id"
	LocTeacherID = "teacher_id"
)

// ExtractBearer toleran spasi ganda, case-insensitive, dan kutip.
func ExtractBearer(header string) string {
	fields := strings.Fields(strings.TrimSpace(header))
	if len(fields) < 2 || !strings.EqualFold(fields[0], "Bearer") {
		return ""
	}
	return strings.Trim(strings.TrimSpace(fields[1]), "\"'")
}
