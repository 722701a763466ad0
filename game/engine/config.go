package engine

import (
	"errors"
	"fmt"
	"sort"
)

var ErrInvalidLevel = errors.New("invalid level data")

// Level is an immutable level template. A level attempt is a fresh Board and
// Inventory derived from it.
type Level struct {
	Number      int          `json:"number"`
	Description string       `json:"description"`
	BoardSize   int          `json:"board_size"`
	Obstacles   []Coordinate `json:"obstacles"`
	Pieces      []Piece      `json:"pieces"`
}

// Catalog is an ordered list of levels played one after another
type Catalog struct {
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	RotationPolicy RotationPolicy `json:"rotation_policy"`
	Levels         []Level        `json:"levels"`
}

// Len returns the number of levels
func (c *Catalog) Len() int { return len(c.Levels) }

// Level returns the level at index (0-based)
func (c *Catalog) Level(index int) (Level, bool) {
	if index < 0 || index >= len(c.Levels) {
		return Level{}, false
	}
	return c.Levels[index], true
}

// HasNext reports whether a level follows index
func (c *Catalog) HasNext(index int) bool {
	return index+1 < len(c.Levels)
}

// CatalogSpec is the on-disk catalog format, shared by JSON and TOML files
type CatalogSpec struct {
	Name           string      `json:"name" toml:"name"`
	Description    string      `json:"description" toml:"description"`
	RotationPolicy string      `json:"rotation_policy,omitempty" toml:"rotation_policy,omitempty"`
	Levels         []LevelSpec `json:"levels" toml:"levels"`
}

// LevelSpec is the on-disk format of a single level
type LevelSpec struct {
	Number      int         `json:"number" toml:"number"`
	Description string      `json:"description" toml:"description"`
	BoardSize   int         `json:"board_size,omitempty" toml:"board_size,omitempty"`
	Obstacles   [][]int     `json:"obstacles" toml:"obstacles"`
	Pieces      []PieceSpec `json:"pieces" toml:"pieces"`
}

// PieceSpec is the on-disk format of a piece: an id and a 0/1 matrix
type PieceSpec struct {
	ID    int     `json:"id" toml:"id"`
	Shape [][]int `json:"shape" toml:"shape"`
}

// ParseCatalog validates a catalog spec and builds the catalog. Malformed
// level data is a fatal load-time fault and is reported, never masked.
func ParseCatalog(spec *CatalogSpec) (*Catalog, error) {
	if spec == nil {
		return nil, fmt.Errorf("%w: catalog is nil", ErrInvalidLevel)
	}
	if spec.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidLevel)
	}
	if len(spec.Levels) == 0 {
		return nil, fmt.Errorf("%w: catalog %q has no levels", ErrInvalidLevel, spec.Name)
	}

	policy := RotationPolicy(spec.RotationPolicy)
	if policy == "" {
		policy = RotateSelectedPiece
	}
	if !policy.Valid() {
		return nil, fmt.Errorf("%w: rotation_policy must be %q or %q, got %q",
			ErrInvalidLevel, RotateSelectedPiece, RotateAllPieces, spec.RotationPolicy)
	}

	catalog := &Catalog{
		Name:           spec.Name,
		Description:    spec.Description,
		RotationPolicy: policy,
		Levels:         make([]Level, 0, len(spec.Levels)),
	}

	seen := make(map[int]bool)
	for i := range spec.Levels {
		level, err := ParseLevel(&spec.Levels[i])
		if err != nil {
			return nil, fmt.Errorf("level %d: %w", spec.Levels[i].Number, err)
		}
		if seen[level.Number] {
			return nil, fmt.Errorf("%w: duplicate level number %d", ErrInvalidLevel, level.Number)
		}
		seen[level.Number] = true
		catalog.Levels = append(catalog.Levels, level)
	}

	sort.SliceStable(catalog.Levels, func(i, j int) bool {
		return catalog.Levels[i].Number < catalog.Levels[j].Number
	})
	return catalog, nil
}

// ParseLevel validates a single level spec
func ParseLevel(spec *LevelSpec) (Level, error) {
	size := spec.BoardSize
	if size == 0 {
		size = DefaultBoardSize
	}
	if size < MinBoardSize || size > MaxBoardSize {
		return Level{}, fmt.Errorf("%w: board_size must be between %d and %d, got %d",
			ErrInvalidLevel, MinBoardSize, MaxBoardSize, size)
	}
	if spec.Number < 1 {
		return Level{}, fmt.Errorf("%w: number must be positive, got %d", ErrInvalidLevel, spec.Number)
	}

	level := Level{
		Number:      spec.Number,
		Description: spec.Description,
		BoardSize:   size,
		Obstacles:   make([]Coordinate, 0, len(spec.Obstacles)),
		Pieces:      make([]Piece, 0, len(spec.Pieces)),
	}

	blocked := make(map[Coordinate]bool)
	for i, pair := range spec.Obstacles {
		if len(pair) != 2 {
			return Level{}, fmt.Errorf("%w: obstacle %d must be a [row, col] pair", ErrInvalidLevel, i)
		}
		c := Coordinate{Row: pair[0], Col: pair[1]}
		if c.Row < 0 || c.Row >= size || c.Col < 0 || c.Col >= size {
			return Level{}, fmt.Errorf("%w: obstacle %s outside %dx%d board", ErrInvalidLevel, c, size, size)
		}
		if blocked[c] {
			return Level{}, fmt.Errorf("%w: duplicate obstacle %s", ErrInvalidLevel, c)
		}
		blocked[c] = true
		level.Obstacles = append(level.Obstacles, c)
	}

	if len(spec.Pieces) == 0 {
		return Level{}, fmt.Errorf("%w: level needs at least one piece", ErrInvalidLevel)
	}
	if len(spec.Pieces) > MaxPieces {
		return Level{}, fmt.Errorf("%w: at most %d pieces per level, got %d", ErrInvalidLevel, MaxPieces, len(spec.Pieces))
	}

	ids := make(map[int]bool)
	area := 0
	for _, ps := range spec.Pieces {
		if ps.ID < 1 {
			return Level{}, fmt.Errorf("%w: piece id must be positive, got %d", ErrInvalidLevel, ps.ID)
		}
		if ids[ps.ID] {
			return Level{}, fmt.Errorf("%w: duplicate piece id %d", ErrInvalidLevel, ps.ID)
		}
		ids[ps.ID] = true

		shape, err := NewShape(ps.Shape)
		if err != nil {
			return Level{}, fmt.Errorf("%w: piece %d: %v", ErrInvalidLevel, ps.ID, err)
		}
		area += shape.FilledCount()
		level.Pieces = append(level.Pieces, Piece{ID: ps.ID, Shape: shape})
	}

	free := size*size - len(level.Obstacles)
	if area > free {
		return Level{}, fmt.Errorf("%w: pieces cover %d cells but only %d are free", ErrInvalidLevel, area, free)
	}

	empty := NewBoard(level)
	for _, p := range level.Pieces {
		if !FitsAnywhere(empty, p.Shape) {
			return Level{}, fmt.Errorf("%w: piece %d fits nowhere on the empty board", ErrInvalidLevel, p.ID)
		}
	}

	return level, nil
}

// Spec converts the catalog back to its on-disk format
func (c *Catalog) Spec() *CatalogSpec {
	spec := &CatalogSpec{
		Name:           c.Name,
		Description:    c.Description,
		RotationPolicy: string(c.RotationPolicy),
		Levels:         make([]LevelSpec, 0, len(c.Levels)),
	}
	for _, l := range c.Levels {
		ls := LevelSpec{
			Number:      l.Number,
			Description: l.Description,
			BoardSize:   l.BoardSize,
			Obstacles:   make([][]int, 0, len(l.Obstacles)),
			Pieces:      make([]PieceSpec, 0, len(l.Pieces)),
		}
		for _, o := range l.Obstacles {
			ls.Obstacles = append(ls.Obstacles, []int{o.Row, o.Col})
		}
		for _, p := range l.Pieces {
			ls.Pieces = append(ls.Pieces, PieceSpec{ID: p.ID, Shape: p.Shape.Matrix()})
		}
		spec.Levels = append(spec.Levels, ls)
	}
	return spec
}

// DefaultCatalog returns the built-in three-level catalog
func DefaultCatalog() *Catalog {
	catalog, err := ParseCatalog(defaultCatalogSpec())
	if err != nil {
		panic(fmt.Sprintf("built-in catalog is invalid: %v", err))
	}
	return catalog
}

func defaultCatalogSpec() *CatalogSpec {
	return &CatalogSpec{
		Name:           "classic",
		Description:    "The original three levels",
		RotationPolicy: string(RotateSelectedPiece),
		Levels: []LevelSpec{
			{
				Number:      1,
				Description: "Welcome! Place all pieces to complete the level.",
				Obstacles:   [][]int{{2, 2}, {2, 7}, {7, 2}, {7, 7}},
				Pieces: []PieceSpec{
					{ID: 1, Shape: [][]int{{1, 1, 0}, {0, 1, 0}, {0, 1, 0}}},
					{ID: 2, Shape: [][]int{{1, 1, 1}, {1, 0, 0}, {0, 0, 0}}},
					{ID: 3, Shape: [][]int{{0, 1, 0}, {1, 1, 1}, {0, 0, 0}}},
				},
			},
			{
				Number:      2,
				Description: "More challenging! Navigate around the obstacles.",
				Obstacles: [][]int{
					{1, 4}, {1, 5}, {1, 6},
					{4, 1}, {4, 2}, {4, 8}, {4, 9},
					{8, 3}, {8, 4}, {8, 5}, {8, 6},
				},
				Pieces: []PieceSpec{
					{ID: 1, Shape: [][]int{{1, 1, 0}, {1, 1, 0}, {0, 0, 0}}},
					{ID: 2, Shape: [][]int{{0, 1, 1}, {1, 1, 0}, {0, 0, 0}}},
					{ID: 3, Shape: [][]int{{1, 0, 0}, {1, 1, 1}, {0, 0, 0}}},
					{ID: 4, Shape: [][]int{{1, 1, 1}, {0, 1, 0}, {0, 1, 0}}},
				},
			},
			{
				Number:      3,
				Description: "Expert level! Complex patterns and tight spaces.",
				Obstacles: [][]int{
					{0, 4}, {0, 5},
					{2, 2}, {2, 3}, {2, 6}, {2, 7},
					{4, 0}, {4, 9},
					{5, 0}, {5, 9},
					{7, 2}, {7, 3}, {7, 6}, {7, 7},
					{9, 4}, {9, 5},
				},
				Pieces: []PieceSpec{
					{ID: 1, Shape: [][]int{{1, 1, 1}, {1, 0, 0}, {1, 0, 0}}},
					{ID: 2, Shape: [][]int{{0, 1, 0}, {1, 1, 1}, {0, 1, 0}}},
					{ID: 3, Shape: [][]int{{1, 1, 0}, {0, 1, 1}, {0, 0, 1}}},
					{ID: 4, Shape: [][]int{{1, 0, 1}, {1, 1, 1}, {0, 0, 0}}},
					{ID: 5, Shape: [][]int{{1, 1, 0}, {1, 0, 0}, {1, 0, 0}}},
				},
			},
		},
	}
}
