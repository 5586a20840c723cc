// Package mongostore backs the engine's credential storage with MongoDB.
//
// UserStore implements authcore.UserStore on a users collection with a
// unique email index. The failed sign-in counter is advanced with a single
// pipeline update so that concurrent wrong-password attempts cannot race
// the lock decision. LoginLogSink implements authcore.AuditSink and
// records sign-in related audit events in a login_logs collection.
//
// Every call runs under its own short deadline so a stalled database
// surfaces as an error instead of hanging the caller.
package mongostore
