package backup

// Owns reports whether a caller may act on a resource filed under the given
// owner. There is no sharing or delegation model: ownership is identity.
//
// Both the archive index and the restore engine call this independently.
// The redundancy is intentional given how destructive restore is; neither
// call site may be removed on the grounds that the other remains.
func Owns(callerTeacherID, resourceTeacherID string) bool {
	return callerTeacherID != "" && callerTeacherID == resourceTeacherID
}
