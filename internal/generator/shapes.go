package generator

import (
	"math/rand/v2"
	"sort"
	"strconv"

	"github.com/yourusername/keno-analytics/internal/models"
)

// Placement modes for the shapes strategy.
const (
	PlacementCenter = "center"
	PlacementRandom = "random"
	PlacementHot    = "hot"

	ShapeRandom    = "random"
	RotationRandom = "random"
)

// Offset is a cell position relative to a shape's anchor.
type Offset struct {
	Row int
	Col int
}

// Shapes are listed anchor first so truncation keeps the core of the figure.
var builtinShapes = map[string][]Offset{
	"plus":     {{0, 0}, {-1, 0}, {0, 1}, {1, 0}, {0, -1}},
	"cross":    {{0, 0}, {-1, -1}, {-1, 1}, {1, 1}, {1, -1}},
	"line":     {{0, 0}, {0, -1}, {0, 1}, {0, -2}, {0, 2}},
	"square":   {{0, 0}, {0, 1}, {1, 0}, {1, 1}, {-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {1, -1}},
	"l":        {{0, 0}, {-1, 0}, {-2, 0}, {1, 0}, {1, 1}, {1, 2}},
	"t":        {{0, 0}, {-1, 0}, {-1, -1}, {-1, 1}, {1, 0}, {2, 0}},
	"diagonal": {{0, 0}, {-1, -1}, {1, 1}, {-2, -2}, {2, 2}},
	"zigzag":   {{0, 0}, {-1, -1}, {-1, 1}, {0, -2}, {0, 2}, {-1, -3}, {-1, 3}},
	"arrow":    {{0, 0}, {-1, -1}, {1, -1}, {0, -1}, {0, -2}, {0, -3}},
}

var orthogonal = [...]Offset{{-1, 0}, {0, 1}, {1, 0}, {0, -1}}

// ShapeNames lists the built-in shapes.
func ShapeNames() []string {
	names := make([]string, 0, len(builtinShapes))
	for name := range builtinShapes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ShapeOffsets returns a copy of the named shape's offsets.
func ShapeOffsets(name string) ([]Offset, bool) {
	offsets, ok := builtinShapes[name]
	if !ok {
		return nil, false
	}
	return append([]Offset(nil), offsets...), true
}

// CellOf maps a board number to its grid cell.
func CellOf(n int) (row, col int) {
	return (n - 1) / models.BoardCols, (n - 1) % models.BoardCols
}

// NumberAt maps a grid cell to its board number, or 0 off the board.
func NumberAt(row, col int) int {
	if row < 0 || row >= models.BoardRows || col < 0 || col >= models.BoardCols {
		return 0
	}
	return row*models.BoardCols + col + 1
}

// Rotate turns offsets clockwise by degrees, which must be a multiple of 90.
func Rotate(offsets []Offset, degrees int) []Offset {
	turns := ((degrees/90)%4 + 4) % 4
	out := make([]Offset, len(offsets))
	for i, o := range offsets {
		r, c := o.Row, o.Col
		for t := 0; t < turns; t++ {
			r, c = c, -r
		}
		out[i] = Offset{Row: r, Col: c}
	}
	return out
}

// Place anchors offsets at (row, col). It reports false when any cell falls
// off the board.
func Place(offsets []Offset, row, col int) ([]int, bool) {
	numbers := make([]int, 0, len(offsets))
	for _, o := range offsets {
		n := NumberAt(row+o.Row, col+o.Col)
		if n == 0 {
			return nil, false
		}
		numbers = append(numbers, n)
	}
	return numbers, true
}

// Grow adds orthogonal neighbours, sweeping outward from the first number,
// until numbers holds count entries or the board is exhausted.
func Grow(numbers []int, count int) []int {
	out := Sanitize(numbers, models.BoardSize)
	seen := models.MaskOf(out)
	for i := 0; i < len(out) && len(out) < count; i++ {
		row, col := CellOf(out[i])
		for _, d := range orthogonal {
			if len(out) >= count {
				break
			}
			n := NumberAt(row+d.Row, col+d.Col)
			if n == 0 || seen&(1<<uint(n-1)) != 0 {
				continue
			}
			seen |= 1 << uint(n-1)
			out = append(out, n)
		}
	}
	return out
}

// centerOrder lists board numbers nearest the board centre first.
func centerOrder() []int {
	order := Board()
	centerRow := float64(models.BoardRows-1) / 2
	centerCol := float64(models.BoardCols-1) / 2
	dist := func(n int) float64 {
		r, c := CellOf(n)
		dr, dc := float64(r)-centerRow, float64(c)-centerCol
		return dr*dr + dc*dc
	}
	sort.SliceStable(order, func(i, j int) bool {
		return dist(order[i]) < dist(order[j])
	})
	return order
}

// ShapesStrategy places a geometric figure on the 5x8 board.
type ShapesStrategy struct {
	*BaseStrategy
}

// NewShapesStrategy creates a shapes strategy.
func NewShapesStrategy(rng *rand.Rand) *ShapesStrategy {
	return &ShapesStrategy{BaseStrategy: NewBaseStrategy(rng)}
}

// Name returns the strategy name.
func (s *ShapesStrategy) Name() string { return MethodShapes }

// Description describes the strategy.
func (s *ShapesStrategy) Description() string {
	return "geometric figures placed on the board grid"
}

// Generate implements Strategy.
func (s *ShapesStrategy) Generate(count int, history []models.Round, cfg Config) []int {
	count = ClampCount(count)
	sample := frequencySample(history, cfg)
	if len(sample) == 0 {
		return s.Fallback(count)
	}

	offsets := Rotate(s.pickShape(cfg.String(KeyShape, ShapeRandom)), s.pickRotation(cfg.String(KeyRotation, "0")))
	for _, anchor := range s.anchors(cfg.String(KeyPlacement, PlacementCenter), sample) {
		row, col := CellOf(anchor)
		numbers, ok := Place(offsets, row, col)
		if !ok {
			continue
		}
		if len(numbers) >= count {
			return numbers[:count]
		}
		return Grow(numbers, count)
	}
	return s.Fallback(count)
}

func (s *ShapesStrategy) pickShape(name string) []Offset {
	if offsets, ok := builtinShapes[name]; ok {
		return offsets
	}
	names := ShapeNames()
	return builtinShapes[names[s.intN(len(names))]]
}

func (s *ShapesStrategy) pickRotation(value string) int {
	if value == RotationRandom {
		return 90 * s.intN(4)
	}
	degrees, err := strconv.Atoi(value)
	if err != nil || degrees%90 != 0 {
		return 0
	}
	return degrees
}

func (s *ShapesStrategy) anchors(placement string, sample []models.Round) []int {
	switch placement {
	case PlacementRandom:
		board := Board()
		s.Shuffle(board)
		return board
	case PlacementHot:
		return RankByFrequency(Tally(sample))
	default:
		return centerOrder()
	}
}
