package catalog

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/ziadkadry99/cerebro/internal/progress"
)

// SeedPattern selects the YAML files read from a seed directory.
const SeedPattern = "**/*.{yml,yaml}"

// SeedFile is the layout of one seed document. Any file may carry any
// subset of the collections.
type SeedFile struct {
	Courses   []Course          `yaml:"courses"`
	Equipment []Equipment       `yaml:"equipment"`
	Videos    []Video           `yaml:"videos"`
	Articles  []Article         `yaml:"articles"`
	Examples  []ApprovedExample `yaml:"approved_examples"`
}

func (f SeedFile) size() int {
	return len(f.Courses) + len(f.Equipment) + len(f.Videos) + len(f.Articles) + len(f.Examples)
}

// SeedResult summarizes a seeding run.
type SeedResult struct {
	Files    int          `json:"files"`
	Counts   map[Kind]int `json:"counts"`
	Articles []Article    `json:"-"`
}

// FindSeedFiles returns the seed files under dir, sorted.
func FindSeedFiles(dir string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(dir), SeedPattern)
	if err != nil {
		return nil, fmt.Errorf("globbing %s: %w", dir, err)
	}
	sort.Strings(matches)
	return matches, nil
}

// Seed loads every seed file under dir into the store. Rows are upserted, so
// seeding the same directory twice leaves the catalog unchanged.
func Seed(ctx context.Context, store *Store, dir string, reporter progress.Reporter) (*SeedResult, error) {
	files, err := FindSeedFiles(dir)
	if err != nil {
		return nil, err
	}

	fsys := os.DirFS(dir)
	docs := make([]SeedFile, 0, len(files))
	total := 0
	for _, name := range files {
		doc, err := readSeedFile(fsys, name)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
		total += doc.size()
	}

	result := &SeedResult{Files: len(files), Counts: make(map[Kind]int, len(Kinds))}
	if reporter != nil {
		reporter.Start(total)
		defer reporter.Finish()
	}

	done := 0
	step := func(msg string) {
		done++
		if reporter != nil {
			reporter.Update(done, msg)
		}
	}

	// Equipment first across all files so video references resolve. A video
	// may name its equipment instead of giving the id.
	equipmentByName := make(map[string]string)
	for _, doc := range docs {
		for _, e := range doc.Equipment {
			setID(&e.ID, KindEquipment, e.Name)
			if err := store.UpsertEquipment(ctx, e); err != nil {
				return nil, err
			}
			equipmentByName[strings.ToLower(e.Name)] = e.ID
			result.Counts[KindEquipment]++
			step(e.Name)
		}
	}
	for _, doc := range docs {
		for _, c := range doc.Courses {
			setID(&c.ID, KindCourses, c.Title)
			if err := store.UpsertCourse(ctx, c); err != nil {
				return nil, err
			}
			result.Counts[KindCourses]++
			step(c.Title)
		}
		for _, v := range doc.Videos {
			setID(&v.ID, KindVideos, v.Title)
			if id, ok := equipmentByName[strings.ToLower(v.EquipmentID)]; ok {
				v.EquipmentID = id
			}
			if err := store.UpsertVideo(ctx, v); err != nil {
				return nil, err
			}
			result.Counts[KindVideos]++
			step(v.Title)
		}
		for _, a := range doc.Articles {
			setID(&a.ID, KindArticles, a.Title)
			if err := store.UpsertArticle(ctx, a); err != nil {
				return nil, err
			}
			result.Counts[KindArticles]++
			result.Articles = append(result.Articles, a)
			step(a.Title)
		}
		for _, e := range doc.Examples {
			setID(&e.ID, KindExamples, e.Topic+"\n"+e.Content)
			if err := store.UpsertExample(ctx, e); err != nil {
				return nil, err
			}
			result.Counts[KindExamples]++
			step(e.Topic)
		}
	}

	return result, nil
}

// setID derives a stable id from the row's natural key when the seed file
// leaves it blank.
func setID(id *string, kind Kind, key string) {
	if *id == "" {
		*id = uuid.NewSHA1(uuid.NameSpaceOID, []byte(string(kind)+":"+key)).String()
	}
}

func readSeedFile(fsys fs.FS, name string) (SeedFile, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return SeedFile{}, fmt.Errorf("reading seed file %s: %w", name, err)
	}
	var doc SeedFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return SeedFile{}, fmt.Errorf("parsing seed file %s: %w", name, err)
	}
	return doc, nil
}
