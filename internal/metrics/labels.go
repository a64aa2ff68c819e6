package metrics

const (
	namespaceRingchat = "ringchat"
	subsystemSession  = "session"
	subsystemRelay    = "relay"
)

const (
	LabelFrameType = "frame_type"
	LabelReason    = "reason"
	LabelStatus    = "status"
)
