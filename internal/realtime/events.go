package realtime

type SSEEvent string

const (
	SSEEventSyllabusUploaded  SSEEvent = "SyllabusUploaded"
	SSEEventSyllabusReplaced  SSEEvent = "SyllabusReplaced"
	SSEEventNoteUploaded      SSEEvent = "NoteUploaded"
	SSEEventAssignmentCreated SSEEvent = "AssignmentCreated"
	SSEEventAssignmentDeleted SSEEvent = "AssignmentDeleted"
	SSEEventSubmissionCreated SSEEvent = "SubmissionCreated"
	SSEEventSubmissionGraded  SSEEvent = "SubmissionGraded"
	SSEEventSubmissionDeleted SSEEvent = "SubmissionDeleted"
	SSEEventActivityCreated   SSEEvent = "ActivityCreated"
)

// Channels are table scoped; clients subscribe to the tables they render.
const (
	ChannelSubmissions = "assignment_submission"
	ChannelActivities  = "activity"
	ChannelSyllabus    = "syllabus"
	ChannelNotes       = "note"
	ChannelAssignments = "assignment"
)

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}
