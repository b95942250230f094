package types

// Clip is one request-supplied video segment. Duration is informational only;
// the actual output trim is driven by the narration length at encode time.
type Clip struct {
	URL      string  `json:"url" binding:"required"`
	Duration float64 `json:"duration"`
	SceneNum int     `json:"sceneNum"`
}

// RenderRequest describes one render: a set of timed clips plus a narration
// track. It arrives as the POST /render body or as a Kafka message.
type RenderRequest struct {
	Title        string `json:"title"`
	VideoClips   []Clip `json:"videoClips"`
	NarrationURL string `json:"narrationUrl" binding:"required"`
	Transitions  bool   `json:"transitions"`
	ColorGrade   bool   `json:"colorGrade"`
	Webhook      string `json:"webhook,omitempty"`
}

// PublishedArtifact is the durable result of a render: the object-store key
// the output was uploaded under and the public URL derived from it.
// Immutable once created.
type PublishedArtifact struct {
	StorageKey string `json:"storage_key"`
	PublicURL  string `json:"public_url"`
}

// WebhookPayload is the body of the completion callback.
type WebhookPayload struct {
	FinalURL string `json:"final_url"`
}
