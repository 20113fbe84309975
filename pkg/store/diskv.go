package store

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/marker/pkg/highlight"
)

// Persistence defines the persistence contract for highlight records. A
// page is any document identity the caller chooses (URL, file path).
type Persistence interface {
	MapAll(ctx context.Context) map[string][]*highlight.Record
	List(ctx context.Context, page string) []*highlight.Record
	Pages(ctx context.Context, prefix string) []string
	Store(page string, r *highlight.Record) error
	SaveAll(page string, recs []*highlight.Record) error
	Delete(page, id string) error
	Watch(ctx context.Context) (<-chan Event, error)
}

// Load creates a Persistence backed by diskv using the provided config.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
}

func (p *persistence) read(key string) (*highlight.Record, error) {
	val, err := p.d.Read(key)
	if err != nil {
		return nil, err
	}
	r := highlight.Record{}
	if err := json.Unmarshal(val, &r); err != nil {
		return nil, err
	}
	if r.ID == "" {
		r.ID = keyToPathTransform(key).FileName
	}
	return &r, nil
}

func (p *persistence) MapAll(ctx context.Context) map[string][]*highlight.Record {
	all := make(map[string][]*highlight.Record)
	for key := range p.d.Keys(ctx.Done()) {
		pk := keyToPathTransform(key)
		page := fromPage(pagePart(pk))

		r, err := p.read(key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", key, err)
			continue
		}
		all[page] = append(all[page], r)
	}
	for page := range all {
		sortRecords(all[page])
	}
	return all
}

func (p *persistence) List(ctx context.Context, page string) []*highlight.Record {
	pk := toPage(page)
	all := make([]*highlight.Record, 0)
	for key := range p.d.Keys(ctx.Done()) {
		if k := keyToPathTransform(key); pagePart(k) == pk {
			r, err := p.read(key)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: %s\n", key, err)
				continue
			}
			all = append(all, r)
		}
	}
	sortRecords(all)
	return all
}

func (p *persistence) Pages(ctx context.Context, prefix string) []string {
	seen := make(map[string]bool)
	for key := range p.d.Keys(ctx.Done()) {
		pk := keyToPathTransform(key)
		seen[fromPage(pagePart(pk))] = true
	}
	pages := make([]string, 0, len(seen))
	for page := range seen {
		if prefix == "" || strings.HasPrefix(page, prefix) {
			pages = append(pages, page)
		}
	}
	sort.Strings(pages)
	return pages
}

func (p *persistence) Store(page string, r *highlight.Record) error {
	if page == "" {
		return errors.New("store: page required")
	}
	if r.ID == "" {
		r.ID = highlight.NewID(time.Now())
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = r.Created(time.Now())
	}
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return p.d.Write(toKey(page, r.ID), data)
}

// SaveAll replaces a page's record set wholesale. The engine persists the
// full sequence after a resize commit or merge, so records no longer in the
// sequence are erased.
func (p *persistence) SaveAll(page string, recs []*highlight.Record) error {
	if page == "" {
		return errors.New("store: page required")
	}
	keep := make(map[string]bool, len(recs))
	for _, r := range recs {
		if err := p.Store(page, r); err != nil {
			return err
		}
		keep[r.ID] = true
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pk := toPage(page)
	for key := range p.d.Keys(ctx.Done()) {
		k := keyToPathTransform(key)
		if pagePart(k) != pk || keep[k.FileName] {
			continue
		}
		if err := p.d.Erase(key); err != nil {
			return err
		}
	}
	return nil
}

func (p *persistence) Delete(page, id string) error {
	if page == "" || id == "" {
		return errors.New("store: page and id required")
	}
	return p.d.Erase(toKey(page, id))
}

func sortRecords(recs []*highlight.Record) {
	now := time.Now()
	sort.SliceStable(recs, func(i, j int) bool {
		left, right := recs[i], recs[j]
		if left == nil || right == nil {
			return left != nil
		}
		lt := left.Created(now)
		rt := right.Created(now)
		if lt.Equal(rt) {
			return left.ID < right.ID
		}
		return lt.Before(rt)
	})
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

// toKey makes `page-id`
func toKey(page, id string) string {
	return fmt.Sprintf("%s-%s", toPage(page), id)
}

// toPage encodes with the URL-safe alphabet: the standard one emits `/` for
// some pages (non-ASCII paths, URLs), which diskv rejects as a path
// separator inside a key segment.
func toPage(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

func fromPage(s string) string {
	page, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		// Keys written before the alphabet change.
		page, err = base64.StdEncoding.DecodeString(s)
	}
	if err != nil {
		return fmt.Sprintf("fromPage: %s", err)
	}
	return string(page)
}

// pagePart reassembles the encoded page from a split key. The URL-safe
// alphabet contains `-`, so an encoded page may span several path segments.
func pagePart(pk *diskv.PathKey) string {
	return strings.Join(pk.Path, "-")
}
