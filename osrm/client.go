package osrm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/openfleet/vrpkit/dataset"
	"github.com/openfleet/vrpkit/travel"
)

// Client satisfies the dataset package's matrix-source contract.
var _ dataset.MatrixSource = (*Client)(nil)

var (
	// ErrNoCoordinates indicates an empty coordinate list.
	ErrNoCoordinates = errors.New("osrm: no coordinates")

	// ErrRequestFailed indicates a non-200 response from the server.
	ErrRequestFailed = errors.New("osrm: request failed")

	// ErrEmptyDistances indicates a 200 response with no distances table.
	ErrEmptyDistances = errors.New("osrm: empty distances")
)

// DefaultBaseURL is the public OSRM demo server. It rate-limits
// aggressively; keep WithPause at its default (or larger) against it.
const DefaultBaseURL = "http://router.project-osrm.org"

const (
	defaultChunkSize = 50
	defaultPause     = 500 * time.Millisecond
	defaultTimeout   = 60 * time.Second
)

// Client fetches driving-distance matrices from an OSRM table endpoint,
// tiling large coordinate sets into chunked sub-requests.
type Client struct {
	base  string
	http  *http.Client
	chunk int
	pause time.Duration
	cache *Cache
	log   zerolog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithChunkSize caps the number of sources (and destinations) per
// request. The public server rejects large tables, so this stays well
// under its limit by default.
func WithChunkSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.chunk = n
		}
	}
}

// WithPause sets the delay between chunk requests. Zero disables it.
func WithPause(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.pause = d
		}
	}
}

// WithCache attaches a chunk cache; hits skip the network entirely.
func WithCache(cache *Cache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithLogger attaches a structured logger for per-chunk progress.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New builds a Client against base (DefaultBaseURL when empty).
func New(base string, opts ...Option) *Client {
	if base == "" {
		base = DefaultBaseURL
	}

	c := &Client{
		base:  strings.TrimRight(base, "/"),
		http:  &http.Client{Timeout: defaultTimeout},
		chunk: defaultChunkSize,
		pause: defaultPause,
		log:   zerolog.Nop(),
	}
	for _, apply := range opts {
		apply(c)
	}

	return c
}

// tableResponse is the subset of the OSRM table reply the client reads.
// Distance cells are pointers: the service emits null for unroutable
// pairs.
type tableResponse struct {
	Code      string       `json:"code"`
	Message   string       `json:"message"`
	Distances [][]*float64 `json:"distances"`
}

// Table fetches the full NxN driving-distance matrix over coords, in
// meters. Unroutable pairs come back as +Inf. The matrix is assembled
// from ceil(n/chunk)² sub-requests; a single coordinate short-circuits
// to a 1x1 zero matrix without touching the network.
func (c *Client) Table(ctx context.Context, coords []travel.Coordinate) (*travel.Matrix, error) {
	n := len(coords)
	if n == 0 {
		return nil, ErrNoCoordinates
	}
	if n == 1 {
		return travel.NewMatrix(1)
	}

	m, err := travel.NewMatrix(n)
	if err != nil {
		return nil, err
	}

	chunks := chunkIndices(n, c.chunk)
	fetched := 0
	for _, src := range chunks {
		for _, dst := range chunks {
			table, hit, err := c.chunkTable(ctx, coords, src, dst)
			if err != nil {
				return nil, err
			}

			for i, si := range src {
				for j, dj := range dst {
					v := math.Inf(1)
					if cell := table[i][j]; cell != nil {
						v = *cell
					}
					if si == dj {
						v = 0
					}
					if err = m.Set(si, dj, v); err != nil {
						return nil, err
					}
				}
			}

			if !hit {
				fetched++
				if err = c.rest(ctx); err != nil {
					return nil, err
				}
			}
		}
	}

	c.log.Debug().
		Int("points", n).
		Int("chunks", len(chunks)*len(chunks)).
		Int("fetched", fetched).
		Msg("distance matrix assembled")

	return m, nil
}

// chunkTable resolves one src×dst tile, from cache when possible. The
// bool result reports a cache hit.
func (c *Client) chunkTable(ctx context.Context, coords []travel.Coordinate, src, dst []int) ([][]*float64, bool, error) {
	path, query := chunkRequest(coords, src, dst)

	if c.cache != nil {
		if table, ok, err := c.cache.Get(path + "?" + query); err != nil {
			return nil, false, err
		} else if ok && tableFits(table, len(src), len(dst)) {
			return table, true, nil
		}
	}

	table, err := c.fetch(ctx, path, query)
	if err != nil {
		return nil, false, fmt.Errorf("chunk %dx%d: %w", len(src), len(dst), err)
	}
	if !tableFits(table, len(src), len(dst)) {
		return nil, false, fmt.Errorf("%w: got %dx? want %dx%d", ErrEmptyDistances, len(table), len(src), len(dst))
	}

	if c.cache != nil {
		if err = c.cache.Put(path+"?"+query, table); err != nil {
			return nil, false, err
		}
	}

	return table, false, nil
}

// fetch performs one table request and decodes the distances.
func (c *Client) fetch(ctx context.Context, path, query string) ([][]*float64, error) {
	u := c.base + path + "?" + query
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrRequestFailed, res.StatusCode)
	}

	var p tableResponse
	if err = json.NewDecoder(res.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	if p.Code != "" && p.Code != "Ok" {
		return nil, fmt.Errorf("%w: %s %s", ErrRequestFailed, p.Code, p.Message)
	}
	if len(p.Distances) == 0 {
		return nil, ErrEmptyDistances
	}

	return p.Distances, nil
}

// rest sleeps between chunk requests without outliving the context.
func (c *Client) rest(ctx context.Context) error {
	if c.pause <= 0 {
		return nil
	}

	t := time.NewTimer(c.pause)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// chunkRequest renders the table path and query for one src×dst tile.
// Coordinates go on the path as lon,lat pairs, sources first.
func chunkRequest(coords []travel.Coordinate, src, dst []int) (path, query string) {
	var sb strings.Builder
	for i, idx := range src {
		if i > 0 {
			sb.WriteByte(';')
		}
		writeCoord(&sb, coords[idx])
	}
	for _, idx := range dst {
		sb.WriteByte(';')
		writeCoord(&sb, coords[idx])
	}

	sources := make([]string, len(src))
	for i := range src {
		sources[i] = strconv.Itoa(i)
	}
	destinations := make([]string, len(dst))
	for j := range dst {
		destinations[j] = strconv.Itoa(len(src) + j)
	}

	q := url.Values{
		"annotations":  {"distance"},
		"sources":      {strings.Join(sources, ";")},
		"destinations": {strings.Join(destinations, ";")},
	}

	return "/table/v1/driving/" + sb.String(), q.Encode()
}

func writeCoord(sb *strings.Builder, c travel.Coordinate) {
	sb.WriteString(strconv.FormatFloat(c.Lon, 'f', -1, 64))
	sb.WriteByte(',')
	sb.WriteString(strconv.FormatFloat(c.Lat, 'f', -1, 64))
}

// chunkIndices slices [0,n) into runs of at most size indices.
func chunkIndices(n, size int) [][]int {
	var chunks [][]int
	for lo := 0; lo < n; lo += size {
		hi := lo + size
		if hi > n {
			hi = n
		}
		run := make([]int, 0, hi-lo)
		for i := lo; i < hi; i++ {
			run = append(run, i)
		}
		chunks = append(chunks, run)
	}

	return chunks
}

// tableFits reports whether a distances table covers rows×cols cells.
func tableFits(table [][]*float64, rows, cols int) bool {
	if len(table) != rows {
		return false
	}
	for _, r := range table {
		if len(r) != cols {
			return false
		}
	}

	return true
}
