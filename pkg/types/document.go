// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// MetadataFilename is the metadata key holding an entry's source filename.
const MetadataFilename = "filename"

// Document is the full extracted text of one file in the documents folder.
// Filename is its unique identifier in the vector index.
type Document struct {
	Content  string `json:"content" yaml:"content"`
	Filename string `json:"filename" yaml:"filename"`
}

// IndexEntry is one record inside a vector index. ID equals the source
// filename; re-indexing a file replaces the entry with the same ID.
type IndexEntry struct {
	ID        string            `json:"id" yaml:"id"`
	Embedding []float32         `json:"embedding" yaml:"embedding"`
	Metadata  map[string]string `json:"metadata" yaml:"metadata"`
	Document  string            `json:"document" yaml:"document"`
}

// EntryFromDocument builds the index entry for doc with its embedding.
func EntryFromDocument(doc Document, embedding []float32) IndexEntry {
	return IndexEntry{
		ID:        doc.Filename,
		Embedding: embedding,
		Metadata:  map[string]string{MetadataFilename: doc.Filename},
		Document:  doc.Content,
	}
}

// Hit is an index entry returned by a similarity query. Lower Distance
// means more similar.
type Hit struct {
	IndexEntry
	Distance float64 `json:"distance" yaml:"distance"`
}

// QueryContext holds the per-question state of one answer pass. It is
// discarded after the answer is produced.
type QueryContext struct {
	// Query is the user's question.
	Query string `json:"query"`

	// Context is the retrieved text concatenated under the character cap.
	Context string `json:"context"`

	// Included is the number of retrieved documents that fit in Context.
	Included int `json:"included"`

	// Prompt is the fully rendered prompt sent to the chat model.
	Prompt string `json:"prompt"`

	// Tokens is the estimated token count of Prompt.
	Tokens int `json:"tokens"`
}
