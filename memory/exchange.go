package memory

import "time"

// Source is one citation attached to an exchange. The memory core treats
// sources as opaque pass-through data; the retrieval layer fills them in.
type Source struct {
	Page           int    `json:"page"`
	Document       string `json:"document"`
	ChunkID        string `json:"chunk_id"`
	ContentPreview string `json:"content_preview"`
}

// Exchange is one question/answer turn with its citations and token cost.
type Exchange struct {
	Timestamp time.Time `json:"timestamp"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Sources   []Source  `json:"sources"`
	// Tokens is estimated once at insertion time and immutable thereafter.
	Tokens int `json:"tokens"`
}

// newExchange builds an Exchange stamped with the current time, estimating
// its token cost from the concatenated question and answer.
func newExchange(question, answer string, sources []Source, counter TokenCounter) Exchange {
	return Exchange{
		Timestamp: time.Now(),
		Question:  question,
		Answer:    answer,
		Sources:   sources,
		Tokens:    counter.Count(question + " " + answer),
	}
}
