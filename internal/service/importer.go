package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"reviewhub/internal/model"
	"reviewhub/internal/repository"
)

// csvRecord is one data row addressed by header name.
type csvRecord struct {
	file   string
	line   int
	header map[string]int
	values []string
}

func (r csvRecord) str(column string) string {
	i, ok := r.header[column]
	if !ok || i >= len(r.values) {
		return ""
	}
	return strings.TrimSpace(r.values[i])
}

func (r csvRecord) uintField(column string) (uint, error) {
	v, err := strconv.ParseUint(r.str(column), 10, 64)
	if err != nil {
		return 0, r.errorf("column %q: %v", column, err)
	}
	return uint(v), nil
}

func (r csvRecord) intField(column string) (int, error) {
	v, err := strconv.Atoi(r.str(column))
	if err != nil {
		return 0, r.errorf("column %q: %v", column, err)
	}
	return v, nil
}

func (r csvRecord) timeField(column string) (time.Time, error) {
	raw := r.str(column)
	if raw == "" {
		return time.Time{}, nil
	}
	v, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, r.errorf("column %q: %v", column, err)
	}
	return v, nil
}

func (r csvRecord) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("%s line %d: %s", r.file, r.line, fmt.Sprintf(format, args...))
}

// importStep loads one CSV file into one table.
type importStep struct {
	file  string
	table string
	parse func(rec csvRecord) (interface{}, error)
	batch func(rows []interface{}) interface{}
}

// Importer bulk-loads seed data from CSV files. Files are loaded in foreign
// key order and ids are kept, so a second run over the same data fails on
// the first duplicate id.
type Importer struct {
	repo repository.ImportRepository
	log  logrus.FieldLogger
}

// NewImporter creates an importer writing through repo.
func NewImporter(repo repository.ImportRepository, log logrus.FieldLogger) *Importer {
	return &Importer{repo: repo, log: log}
}

// ImportSummary counts the rows loaded per file.
type ImportSummary map[string]int

// Run loads every known file present in fsys. Missing files are skipped.
func (im *Importer) Run(ctx context.Context, fsys fs.FS) (ImportSummary, error) {
	summary := make(ImportSummary)
	var tables []string
	for _, step := range importSteps {
		rows, err := readCSV(fsys, step)
		if errors.Is(err, fs.ErrNotExist) {
			im.log.WithField("file", step.file).Warn("seed file not found, skipping")
			continue
		}
		if err != nil {
			return summary, err
		}
		if len(rows) > 0 {
			if err := im.repo.InsertBatch(ctx, step.batch(rows)); err != nil {
				return summary, fmt.Errorf("import %s: %w", step.file, err)
			}
		}
		summary[step.file] = len(rows)
		tables = append(tables, step.table)
		im.log.WithFields(logrus.Fields{"file": step.file, "rows": len(rows)}).Info("seed file imported")
	}
	if err := im.repo.ResetSequences(ctx, sequenceTables(tables)...); err != nil {
		return summary, err
	}
	return summary, nil
}

func sequenceTables(tables []string) []string {
	out := make([]string, 0, len(tables))
	for _, t := range tables {
		if t != "title_genres" {
			out = append(out, t)
		}
	}
	return out
}

func readCSV(fsys fs.FS, step importStep) ([]interface{}, error) {
	f, err := fsys.Open(step.file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	head, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", step.file, err)
	}
	header := make(map[string]int, len(head))
	for i, name := range head {
		header[strings.TrimPrefix(strings.TrimSpace(name), "\ufeff")] = i
	}

	var rows []interface{}
	for line := 2; ; line++ {
		values, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.file, err)
		}
		row, err := step.parse(csvRecord{file: step.file, line: line, header: header, values: values})
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func collect[T any](rows []interface{}) interface{} {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.(T))
	}
	return &out
}

var importSteps = []importStep{
	{file: "users.csv", table: "users", parse: parseUser, batch: collect[model.User]},
	{file: "genre.csv", table: "genres", parse: parseGenre, batch: collect[model.Genre]},
	{file: "category.csv", table: "categories", parse: parseCategory, batch: collect[model.Category]},
	{file: "titles.csv", table: "titles", parse: parseTitle, batch: collect[model.Title]},
	{file: "genre_title.csv", table: "title_genres", parse: parseTitleGenre, batch: collect[model.TitleGenre]},
	{file: "review.csv", table: "reviews", parse: parseReview, batch: collect[model.Review]},
	{file: "comments.csv", table: "comments", parse: parseComment, batch: collect[model.Comment]},
}

func parseUser(rec csvRecord) (interface{}, error) {
	id, err := rec.uintField("id")
	if err != nil {
		return nil, err
	}
	role := model.Role(rec.str("role"))
	if role == "" {
		role = model.RoleUser
	}
	if !role.Valid() {
		return nil, rec.errorf("unknown role %q", role)
	}
	return model.User{
		ID:        id,
		Username:  rec.str("username"),
		Email:     rec.str("email"),
		Role:      role,
		Bio:       rec.str("bio"),
		FirstName: rec.str("first_name"),
		LastName:  rec.str("last_name"),
	}, nil
}

func parseNamedSlug(rec csvRecord) (uint, model.NamedSlug, error) {
	id, err := rec.uintField("id")
	if err != nil {
		return 0, model.NamedSlug{}, err
	}
	return id, model.NamedSlug{Name: rec.str("name"), Slug: rec.str("slug")}, nil
}

func parseGenre(rec csvRecord) (interface{}, error) {
	id, ns, err := parseNamedSlug(rec)
	if err != nil {
		return nil, err
	}
	return model.Genre{ID: id, NamedSlug: ns}, nil
}

func parseCategory(rec csvRecord) (interface{}, error) {
	id, ns, err := parseNamedSlug(rec)
	if err != nil {
		return nil, err
	}
	return model.Category{ID: id, NamedSlug: ns}, nil
}

func parseTitle(rec csvRecord) (interface{}, error) {
	id, err := rec.uintField("id")
	if err != nil {
		return nil, err
	}
	year, err := rec.intField("year")
	if err != nil {
		return nil, err
	}
	title := model.Title{ID: id, Name: rec.str("name"), Year: year, Description: rec.str("description")}
	if rec.str("category") != "" {
		categoryID, err := rec.uintField("category")
		if err != nil {
			return nil, err
		}
		title.CategoryID = &categoryID
	}
	return title, nil
}

func parseTitleGenre(rec csvRecord) (interface{}, error) {
	titleID, err := rec.uintField("title_id")
	if err != nil {
		return nil, err
	}
	genreID, err := rec.uintField("genre_id")
	if err != nil {
		return nil, err
	}
	return model.TitleGenre{TitleID: titleID, GenreID: genreID}, nil
}

func parseAuthoredText(rec csvRecord) (model.AuthoredText, error) {
	author, err := rec.uintField("author")
	if err != nil {
		return model.AuthoredText{}, err
	}
	pubDate, err := rec.timeField("pub_date")
	if err != nil {
		return model.AuthoredText{}, err
	}
	return model.AuthoredText{Text: rec.str("text"), AuthorID: author, PubDate: pubDate}, nil
}

func parseReview(rec csvRecord) (interface{}, error) {
	id, err := rec.uintField("id")
	if err != nil {
		return nil, err
	}
	titleID, err := rec.uintField("title_id")
	if err != nil {
		return nil, err
	}
	score, err := rec.intField("score")
	if err != nil {
		return nil, err
	}
	authored, err := parseAuthoredText(rec)
	if err != nil {
		return nil, err
	}
	return model.Review{ID: id, TitleID: titleID, Score: score, AuthoredText: authored}, nil
}

func parseComment(rec csvRecord) (interface{}, error) {
	id, err := rec.uintField("id")
	if err != nil {
		return nil, err
	}
	reviewID, err := rec.uintField("review_id")
	if err != nil {
		return nil, err
	}
	authored, err := parseAuthoredText(rec)
	if err != nil {
		return nil, err
	}
	return model.Comment{ID: id, ReviewID: reviewID, AuthoredText: authored}, nil
}
