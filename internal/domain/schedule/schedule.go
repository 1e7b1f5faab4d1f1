// Package schedule defines the fixed 16-segment race template shared by the
// simulation engine and the live race runtime.
package schedule

// SegmentType identifies one of the nine segment kinds in the race.
type SegmentType string

// Segment types. Eight 1 km runs interleave with eight fixed stations.
const (
	Run             SegmentType = "RUN"
	SkiErg          SegmentType = "SKI_ERG"
	SledPush        SegmentType = "SLED_PUSH"
	SledPull        SegmentType = "SLED_PULL"
	BurpeeBroadJump SegmentType = "BURPEE_BROAD_JUMP"
	Row             SegmentType = "ROW"
	FarmersCarry    SegmentType = "FARMERS_CARRY"
	SandbagLunges   SegmentType = "SANDBAG_LUNGES"
	WallBalls       SegmentType = "WALL_BALLS"
)

// SegmentCount is the fixed number of segments in a race.
const SegmentCount = 16

// Nominal station durations in seconds, used as the pre-modifier schedule.
const (
	NominalSkiErg          = 240
	NominalSledPush        = 180
	NominalSledPull        = 240
	NominalBurpeeBroadJump = 300
	NominalRow             = 240
	NominalFarmersCarry    = 120
	NominalSandbagLunges   = 270
	NominalWallBalls       = 360
	NominalRun             = 300
)

// Segment is one slot of the race template.
type Segment struct {
	Index    int         // 0-based slot index
	Type     SegmentType // segment kind
	Name     string      // display name, e.g. "Run 3" or "Sled Pull"
	RunIndex int         // 1-based run number for runs, 0 for stations
	Nominal  int         // nominal duration in seconds before athlete modifiers
}

// IsRun reports whether the segment is a running leg.
func (s Segment) IsRun() bool { return s.Type == Run }

// template is the fixed race order. Runs and stations strictly alternate.
var template = [SegmentCount]Segment{
	{Index: 0, Type: Run, Name: "Run 1", RunIndex: 1, Nominal: NominalRun},
	{Index: 1, Type: SkiErg, Name: "SkiErg", Nominal: NominalSkiErg},
	{Index: 2, Type: Run, Name: "Run 2", RunIndex: 2, Nominal: NominalRun},
	{Index: 3, Type: SledPush, Name: "Sled Push", Nominal: NominalSledPush},
	{Index: 4, Type: Run, Name: "Run 3", RunIndex: 3, Nominal: NominalRun},
	{Index: 5, Type: SledPull, Name: "Sled Pull", Nominal: NominalSledPull},
	{Index: 6, Type: Run, Name: "Run 4", RunIndex: 4, Nominal: NominalRun},
	{Index: 7, Type: BurpeeBroadJump, Name: "Burpee Broad Jump", Nominal: NominalBurpeeBroadJump},
	{Index: 8, Type: Run, Name: "Run 5", RunIndex: 5, Nominal: NominalRun},
	{Index: 9, Type: Row, Name: "Row", Nominal: NominalRow},
	{Index: 10, Type: Run, Name: "Run 6", RunIndex: 6, Nominal: NominalRun},
	{Index: 11, Type: FarmersCarry, Name: "Farmers Carry", Nominal: NominalFarmersCarry},
	{Index: 12, Type: Run, Name: "Run 7", RunIndex: 7, Nominal: NominalRun},
	{Index: 13, Type: SandbagLunges, Name: "Sandbag Lunges", Nominal: NominalSandbagLunges},
	{Index: 14, Type: Run, Name: "Run 8", RunIndex: 8, Nominal: NominalRun},
	{Index: 15, Type: WallBalls, Name: "Wall Balls", Nominal: NominalWallBalls},
}

// Segments returns the ordered 16-entry race template.
func Segments() [SegmentCount]Segment {
	return template
}

// At returns the segment at the given 0-based index.
// Indexes outside [0, 15] are clamped to the nearest valid slot.
func At(index int) Segment {
	if index < 0 {
		index = 0
	}
	if index >= SegmentCount {
		index = SegmentCount - 1
	}
	return template[index]
}

// DangerRuns are the run numbers with the statistically worst split fade.
var DangerRuns = []int{5, 8}

// HardStations are the four stations the scout engine flags as critical moments.
var HardStations = map[SegmentType]bool{
	SledPull:        true,
	BurpeeBroadJump: true,
	SandbagLunges:   true,
	WallBalls:       true,
}
