package commands

import (
	"fmt"
	"runtime"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/statemap/pkg/statemap"
)

// percentageValue converts a fraction to a percentage.
const percentageValue = 100

// wellKnownSingletons are the empty-state-key events every synthetic
// room carries besides its membership entries.
var wellKnownSingletons = []string{
	statemap.TypeCreate,
	statemap.TypePowerLevels,
	statemap.TypeJoinRules,
	statemap.TypeHistoryVisibility,
	statemap.TypeName,
	statemap.TypeTopic,
}

// NewBenchCommand creates the bench command.
func NewBenchCommand() *cobra.Command {
	var (
		configPath string
		rooms      int
		members    int
		users      int
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure state map memory footprint against a naive representation",
		Long: `Build a synthetic multi-room state workload twice - once as plain
nested string maps, once as interned state maps sharing one table -
and report the heap footprint of each representation.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}

			if cobraCmd.Flags().Changed("rooms") {
				cfg.Bench.Rooms = rooms
			}

			if cobraCmd.Flags().Changed("members") {
				cfg.Bench.Members = members
			}

			if cobraCmd.Flags().Changed("users") {
				cfg.Bench.Users = users
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			return runBench(cobraCmd, cfg.Bench)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "config file path (default: .statemap.yaml in CWD or $HOME)")
	cmd.Flags().IntVar(&rooms, "rooms", defaultBenchRooms, "number of room snapshots")
	cmd.Flags().IntVar(&members, "members", defaultBenchMembers, "membership entries per room")
	cmd.Flags().IntVar(&users, "users", defaultBenchUsers, "size of the user pool rooms draw from")

	return cmd
}

// benchResult holds the measured footprint of one representation.
type benchResult struct {
	name    string
	entries int
	heap    uint64
}

// runBench builds both representations, measures them, and renders the
// comparison.
func runBench(cmd *cobra.Command, cfg BenchConfig) error {
	out := cmd.OutOrStdout()

	entriesPerRoom := len(wellKnownSingletons) + cfg.Members
	totalEntries := cfg.Rooms * entriesPerRoom

	fmt.Fprintf(out, "workload: %s rooms x %s members (+%d singleton events), %s user pool\n",
		humanize.Comma(int64(cfg.Rooms)),
		humanize.Comma(int64(cfg.Members)),
		len(wellKnownSingletons),
		humanize.Comma(int64(cfg.Users)),
	)

	naiveHeap := measureHeap(func() keeper { return buildNaive(cfg) })
	naive := benchResult{name: "naive nested maps", entries: totalEntries, heap: naiveHeap}

	var tableStats statemap.Stats

	internedHeap := measureHeap(func() keeper {
		maps, last := buildInterned(cfg)
		tableStats = last.Stats()

		return maps
	})
	interned := benchResult{name: "interned state maps", entries: totalEntries, heap: internedHeap}

	renderResults(cmd, naive, interned, tableStats)

	return nil
}

// renderResults prints the comparison table and savings summary.
func renderResults(cmd *cobra.Command, naive, interned benchResult, tableStats statemap.Stats) {
	out := cmd.OutOrStdout()

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Representation", "Entries", "Heap"})

	for _, res := range []benchResult{naive, interned} {
		tbl.AppendRow(table.Row{
			res.name,
			humanize.Comma(int64(res.entries)),
			humanize.Bytes(res.heap),
		})
	}

	fmt.Fprintln(out, tbl.Render())

	fmt.Fprintf(out, "shared table: %s distinct strings, %s\n",
		humanize.Comma(int64(tableStats.InternedStrings)),
		humanize.Bytes(uint64(tableStats.InternedBytes)),
	)

	if naive.heap > interned.heap {
		saved := naive.heap - interned.heap
		fraction := float64(saved) / float64(naive.heap) * percentageValue

		fmt.Fprintln(out, color.New(color.FgGreen).Sprintf(
			"interning saved %s (%.1f%%)", humanize.Bytes(saved), fraction,
		))

		return
	}

	// Tiny workloads can be dominated by fixed overhead.
	fmt.Fprintln(out, color.New(color.FgYellow).Sprint(
		"no saving at this workload size; try more rooms or a smaller user pool",
	))
}

// keeper pins a built representation so the allocator cannot reclaim it
// before the post-build measurement.
type keeper any

// measureHeap returns the heap growth attributable to build.
func measureHeap(build func() keeper) uint64 {
	before := heapAlloc()
	built := build()
	after := heapAlloc()

	runtime.KeepAlive(built)

	if after < before {
		return 0
	}

	return after - before
}

// heapAlloc forces a collection and returns the live heap size.
func heapAlloc() uint64 {
	runtime.GC()

	var stats runtime.MemStats

	runtime.ReadMemStats(&stats)

	return stats.HeapAlloc
}

// buildNaive builds the workload as plain nested string maps, the
// representation a server without interning would hold per room.
func buildNaive(cfg BenchConfig) keeper {
	rooms := make([]map[string]map[string]uint64, 0, cfg.Rooms)

	var eventID uint64

	for roomIdx := range cfg.Rooms {
		room := make(map[string]map[string]uint64)

		for _, eventType := range wellKnownSingletons {
			insertNaive(room, freshString(eventType), "", eventID)
			eventID++
		}

		for memberIdx := range cfg.Members {
			user := userID(cfg, roomIdx, memberIdx)
			insertNaive(room, freshString(statemap.TypeMember), user, eventID)
			eventID++
		}

		rooms = append(rooms, room)
	}

	return rooms
}

// insertNaive stores one entry in a nested string map.
func insertNaive(room map[string]map[string]uint64, eventType, stateKey string, value uint64) {
	bucket, ok := room[eventType]
	if !ok {
		bucket = make(map[string]uint64)
		room[eventType] = bucket
	}

	bucket[stateKey] = value
}

// buildInterned builds the workload as state maps sharing one table.
// The last room's map is returned for stats reporting.
func buildInterned(cfg BenchConfig) ([]*statemap.Map[uint64], *statemap.Map[uint64]) {
	shared := statemap.NewTable()
	rooms := make([]*statemap.Map[uint64], 0, cfg.Rooms)

	var eventID uint64

	for roomIdx := range cfg.Rooms {
		room := statemap.New(statemap.WithTable[uint64](shared))

		for _, eventType := range wellKnownSingletons {
			room.Insert(eventType, "", eventID)
			eventID++
		}

		for memberIdx := range cfg.Members {
			room.Insert(statemap.TypeMember, userID(cfg, roomIdx, memberIdx), eventID)
			eventID++
		}

		rooms = append(rooms, room)
	}

	return rooms, rooms[len(rooms)-1]
}

// userID picks a member from the shared user pool. Consecutive rooms
// start at different pool offsets so memberships overlap without being
// identical.
func userID(cfg BenchConfig, roomIdx, memberIdx int) string {
	idx := (roomIdx + memberIdx) % cfg.Users

	return fmt.Sprintf("@user%05d:synthetic.example.com", idx)
}

// freshString copies s onto the heap, matching what a parser handing
// over freshly decoded event fields would allocate.
func freshString(s string) string {
	return string([]byte(s))
}
