package catalog

import "time"

// MaxLimit caps every catalog lookup.
const MaxLimit = 10

// Kind names one reference collection.
type Kind string

const (
	KindCourses   Kind = "courses"
	KindEquipment Kind = "equipment"
	KindVideos    Kind = "videos"
	KindArticles  Kind = "articles"
	KindExamples  Kind = "approved_examples"
)

// Kinds lists every collection in seeding order (equipment before videos,
// which may reference it).
var Kinds = []Kind{KindCourses, KindEquipment, KindVideos, KindArticles, KindExamples}

// Course is an academy course.
type Course struct {
	ID              string    `json:"id" yaml:"id"`
	Title           string    `json:"title" yaml:"title"`
	Description     string    `json:"description" yaml:"description"`
	Level           string    `json:"level" yaml:"level"`
	Instructor      string    `json:"instructor" yaml:"instructor"`
	DurationMinutes int       `json:"duration_minutes" yaml:"duration_minutes"`
	Tags            []string  `json:"tags" yaml:"tags"`
	CreatedAt       time.Time `json:"created_at" yaml:"-"`
}

// Equipment is an aesthetic device from the equipment catalog.
type Equipment struct {
	ID                string    `json:"id" yaml:"id"`
	Name              string    `json:"name" yaml:"name"`
	Category          string    `json:"category" yaml:"category"`
	Technology        string    `json:"technology" yaml:"technology"`
	Indications       string    `json:"indications" yaml:"indications"`
	Contraindications string    `json:"contraindications" yaml:"contraindications"`
	CreatedAt         time.Time `json:"created_at" yaml:"-"`
}

// Video is an entry of the video library.
type Video struct {
	ID              string    `json:"id" yaml:"id"`
	Title           string    `json:"title" yaml:"title"`
	Description     string    `json:"description" yaml:"description"`
	URL             string    `json:"url" yaml:"url"`
	EquipmentID     string    `json:"equipment_id,omitempty" yaml:"equipment_id"`
	DurationSeconds int       `json:"duration_seconds" yaml:"duration_seconds"`
	CreatedAt       time.Time `json:"created_at" yaml:"-"`
}

// Article is a scientific article from the library.
type Article struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Authors   string    `json:"authors" yaml:"authors"`
	Journal   string    `json:"journal" yaml:"journal"`
	Year      int       `json:"year" yaml:"year"`
	Summary   string    `json:"summary" yaml:"summary"`
	Keywords  []string  `json:"keywords" yaml:"keywords"`
	DOI       string    `json:"doi" yaml:"doi"`
	CreatedAt time.Time `json:"created_at" yaml:"-"`
}

// ApprovedExample is a piece of content the team approved as a style reference.
type ApprovedExample struct {
	ID         string    `json:"id" yaml:"id"`
	Format     string    `json:"format" yaml:"format"`
	Topic      string    `json:"topic" yaml:"topic"`
	Content    string    `json:"content" yaml:"content"`
	ApprovedBy string    `json:"approved_by" yaml:"approved_by"`
	CreatedAt  time.Time `json:"created_at" yaml:"-"`
}
