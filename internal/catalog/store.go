package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ziadkadry99/cerebro/internal/db"
)

// Reader is the read-only view of the reference catalog. Every method returns
// at most limit rows (capped at MaxLimit). With no terms the newest rows come
// back; otherwise rows matching any term in their text columns, ranked by how
// many terms they match. Terms are literal substrings.
type Reader interface {
	SearchCourses(ctx context.Context, terms []string, limit int) ([]Course, error)
	SearchEquipment(ctx context.Context, terms []string, limit int) ([]Equipment, error)
	SearchVideos(ctx context.Context, terms []string, limit int) ([]Video, error)
	SearchArticles(ctx context.Context, terms []string, limit int) ([]Article, error)
	SearchExamples(ctx context.Context, format string, terms []string, limit int) ([]ApprovedExample, error)
}

// Store provides catalog reads and seeding writes over SQLite.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

var _ Reader = (*Store)(nil)

func clampLimit(limit int) int {
	if limit <= 0 || limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern matches term as a literal substring.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// searchQuery builds a SELECT over table matching any term in any of the
// given columns, most matched terms first, then newest. extra is an optional
// pre-built clause ANDed in front.
func searchQuery(selectCols, table string, columns, terms []string, extra string, extraArgs []any, limit int) (string, []any) {
	var (
		clauses   []string
		args      = append([]any{}, extraArgs...)
		matches   []string
		matchArgs []any
	)
	if extra != "" {
		clauses = append(clauses, extra)
	}

	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		ors := make([]string, len(columns))
		for i, col := range columns {
			ors[i] = col + ` LIKE ? ESCAPE '\'`
			matchArgs = append(matchArgs, likePattern(term))
		}
		matches = append(matches, "("+strings.Join(ors, " OR ")+")")
	}

	order := "created_at DESC, id"
	if len(matches) > 0 {
		clauses = append(clauses, "("+strings.Join(matches, " OR ")+")")
		args = append(args, matchArgs...)

		scores := make([]string, len(matches))
		for i, m := range matches {
			scores[i] = "(CASE WHEN " + m + " THEN 1 ELSE 0 END)"
		}
		order = "(" + strings.Join(scores, " + ") + ") DESC, " + order
		args = append(args, matchArgs...)
	}

	query := "SELECT " + selectCols + " FROM " + table
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY %s LIMIT %d", order, clampLimit(limit))
	return query, args
}

const courseCols = "id, title, description, level, instructor, duration_minutes, tags, created_at"

// SearchCourses looks up published courses.
func (s *Store) SearchCourses(ctx context.Context, terms []string, limit int) ([]Course, error) {
	query, args := searchQuery(courseCols, "courses",
		[]string{"title", "description", "tags"}, terms, "published = 1", nil, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying courses: %w", err)
	}
	defer rows.Close()

	var out []Course
	for rows.Next() {
		var (
			c        Course
			tags, ts string
		)
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.Level, &c.Instructor, &c.DurationMinutes, &tags, &ts); err != nil {
			return nil, fmt.Errorf("scanning course: %w", err)
		}
		c.Tags = splitList(tags)
		c.CreatedAt = parseTime(ts)
		out = append(out, c)
	}
	return out, rows.Err()
}

const equipmentCols = "id, name, category, technology, indications, contraindications, created_at"

// SearchEquipment looks up the equipment catalog.
func (s *Store) SearchEquipment(ctx context.Context, terms []string, limit int) ([]Equipment, error) {
	query, args := searchQuery(equipmentCols, "equipment",
		[]string{"name", "category", "technology", "indications"}, terms, "", nil, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying equipment: %w", err)
	}
	defer rows.Close()

	var out []Equipment
	for rows.Next() {
		var (
			e  Equipment
			ts string
		)
		if err := rows.Scan(&e.ID, &e.Name, &e.Category, &e.Technology, &e.Indications, &e.Contraindications, &ts); err != nil {
			return nil, fmt.Errorf("scanning equipment: %w", err)
		}
		e.CreatedAt = parseTime(ts)
		out = append(out, e)
	}
	return out, rows.Err()
}

const videoCols = "id, title, description, url, equipment_id, duration_seconds, created_at"

// SearchVideos looks up the video library.
func (s *Store) SearchVideos(ctx context.Context, terms []string, limit int) ([]Video, error) {
	query, args := searchQuery(videoCols, "videos",
		[]string{"title", "description"}, terms, "", nil, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying videos: %w", err)
	}
	defer rows.Close()

	var out []Video
	for rows.Next() {
		var (
			v           Video
			equipmentID sql.NullString
			ts          string
		)
		if err := rows.Scan(&v.ID, &v.Title, &v.Description, &v.URL, &equipmentID, &v.DurationSeconds, &ts); err != nil {
			return nil, fmt.Errorf("scanning video: %w", err)
		}
		v.EquipmentID = equipmentID.String
		v.CreatedAt = parseTime(ts)
		out = append(out, v)
	}
	return out, rows.Err()
}

const articleCols = "id, title, authors, journal, year, summary, keywords, doi, created_at"

// SearchArticles looks up the scientific article library.
func (s *Store) SearchArticles(ctx context.Context, terms []string, limit int) ([]Article, error) {
	query, args := searchQuery(articleCols, "articles",
		[]string{"title", "summary", "keywords"}, terms, "", nil, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying articles: %w", err)
	}
	defer rows.Close()

	var out []Article
	for rows.Next() {
		var (
			a            Article
			keywords, ts string
		)
		if err := rows.Scan(&a.ID, &a.Title, &a.Authors, &a.Journal, &a.Year, &a.Summary, &keywords, &a.DOI, &ts); err != nil {
			return nil, fmt.Errorf("scanning article: %w", err)
		}
		a.Keywords = splitList(keywords)
		a.CreatedAt = parseTime(ts)
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetArticles returns the articles with the given ids, in no particular order.
func (s *Store) GetArticles(ctx context.Context, ids []string) ([]Article, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+articleCols+" FROM articles WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return nil, fmt.Errorf("querying articles by id: %w", err)
	}
	defer rows.Close()

	var out []Article
	for rows.Next() {
		var (
			a            Article
			keywords, ts string
		)
		if err := rows.Scan(&a.ID, &a.Title, &a.Authors, &a.Journal, &a.Year, &a.Summary, &keywords, &a.DOI, &ts); err != nil {
			return nil, fmt.Errorf("scanning article: %w", err)
		}
		a.Keywords = splitList(keywords)
		a.CreatedAt = parseTime(ts)
		out = append(out, a)
	}
	return out, rows.Err()
}

const exampleCols = "id, format, topic, content, approved_by, created_at"

// SearchExamples looks up approved content examples. An empty format matches all.
func (s *Store) SearchExamples(ctx context.Context, format string, terms []string, limit int) ([]ApprovedExample, error) {
	var (
		extra     string
		extraArgs []any
	)
	if format != "" {
		extra = "format = ?"
		extraArgs = []any{format}
	}
	query, args := searchQuery(exampleCols, "approved_examples",
		[]string{"topic", "content"}, terms, extra, extraArgs, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying approved examples: %w", err)
	}
	defer rows.Close()

	var out []ApprovedExample
	for rows.Next() {
		var (
			e  ApprovedExample
			ts string
		)
		if err := rows.Scan(&e.ID, &e.Format, &e.Topic, &e.Content, &e.ApprovedBy, &ts); err != nil {
			return nil, fmt.Errorf("scanning approved example: %w", err)
		}
		e.CreatedAt = parseTime(ts)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Counts returns the number of rows per collection.
func (s *Store) Counts(ctx context.Context) (map[Kind]int, error) {
	counts := make(map[Kind]int, len(Kinds))
	for _, k := range Kinds {
		var n int
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+string(k)).Scan(&n); err != nil {
			return nil, fmt.Errorf("counting %s: %w", k, err)
		}
		counts[k] = n
	}
	return counts, nil
}

// --- Writes (seeding only; the request path never writes the catalog) ---

// UpsertCourse inserts or replaces a course. If c.ID is empty a UUID is generated.
func (s *Store) UpsertCourse(ctx context.Context, c Course) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO courses (id, title, description, level, instructor, duration_minutes, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title, description = excluded.description, level = excluded.level,
			instructor = excluded.instructor, duration_minutes = excluded.duration_minutes,
			tags = excluded.tags`,
		c.ID, c.Title, c.Description, c.Level, c.Instructor, c.DurationMinutes, joinList(c.Tags))
	if err != nil {
		return fmt.Errorf("upserting course %s: %w", c.ID, err)
	}
	return nil
}

// UpsertEquipment inserts or replaces an equipment entry.
func (s *Store) UpsertEquipment(ctx context.Context, e Equipment) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO equipment (id, name, category, technology, indications, contraindications)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, category = excluded.category, technology = excluded.technology,
			indications = excluded.indications, contraindications = excluded.contraindications`,
		e.ID, e.Name, e.Category, e.Technology, e.Indications, e.Contraindications)
	if err != nil {
		return fmt.Errorf("upserting equipment %s: %w", e.ID, err)
	}
	return nil
}

// UpsertVideo inserts or replaces a video.
func (s *Store) UpsertVideo(ctx context.Context, v Video) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	var equipmentID sql.NullString
	if v.EquipmentID != "" {
		equipmentID = sql.NullString{String: v.EquipmentID, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO videos (id, title, description, url, equipment_id, duration_seconds)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title, description = excluded.description, url = excluded.url,
			equipment_id = excluded.equipment_id, duration_seconds = excluded.duration_seconds`,
		v.ID, v.Title, v.Description, v.URL, equipmentID, v.DurationSeconds)
	if err != nil {
		return fmt.Errorf("upserting video %s: %w", v.ID, err)
	}
	return nil
}

// UpsertArticle inserts or replaces an article.
func (s *Store) UpsertArticle(ctx context.Context, a Article) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO articles (id, title, authors, journal, year, summary, keywords, doi)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title, authors = excluded.authors, journal = excluded.journal,
			year = excluded.year, summary = excluded.summary, keywords = excluded.keywords,
			doi = excluded.doi`,
		a.ID, a.Title, a.Authors, a.Journal, a.Year, a.Summary, joinList(a.Keywords), a.DOI)
	if err != nil {
		return fmt.Errorf("upserting article %s: %w", a.ID, err)
	}
	return nil
}

// UpsertExample inserts or replaces an approved example.
func (s *Store) UpsertExample(ctx context.Context, e ApprovedExample) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Format == "" {
		e.Format = "reels"
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO approved_examples (id, format, topic, content, approved_by)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			format = excluded.format, topic = excluded.topic, content = excluded.content,
			approved_by = excluded.approved_by`,
		e.ID, e.Format, e.Topic, e.Content, e.ApprovedBy)
	if err != nil {
		return fmt.Errorf("upserting approved example %s: %w", e.ID, err)
	}
	return nil
}

func joinList(items []string) string {
	return strings.Join(items, ",")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseTime(ts string) time.Time {
	if t, err := time.Parse(time.DateTime, ts); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, ts); err == nil {
		return t
	}
	return time.Time{}
}
