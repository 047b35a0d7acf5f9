// Command gomus is the CLI front-end for the group-MUS extraction engine
// (spec.md §6). Grounded on cmd/operator-cli/main.go's cobra root command
// (a PreRunE setting the logrus level from a flag) and
// cmd/operator-cli/bundle/generate.go's flag-registration/RunE pattern;
// generalized from one subcommand with one required flag into a single
// root command carrying spec.md §6's full flag table.
package main

import (
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mus-extract/gomus/internal/cnf"
	"github.com/mus-extract/gomus/internal/config"
	"github.com/mus-extract/gomus/internal/engine"
	"github.com/mus-extract/gomus/internal/format"
	"github.com/mus-extract/gomus/internal/scheduler"
	"github.com/mus-extract/gomus/internal/strategy"
)

// flags mirrors spec.md §6's CLI table one field per row; cobra/pflag
// populate it directly, then toOptions translates it into the enums
// engine.Options expects. gomus.yaml's config.Defaults pre-fill these
// before pflag parses argv, so a project default only takes effect when
// the user hasn't passed the corresponding flag explicitly.
type flags struct {
	verbosity int
	deadline  int

	grp   bool
	nomus bool

	ins, dich, prog bool
	chunk           int
	subsetM         int
	subsetS         int
	subsetL         int

	norf bool

	norot, emr, imr bool
	smr             int

	rr, rra bool

	trim    int
	tprct   float64
	tfp     bool
	ichk    bool

	order    int
	polarity int

	comp    bool
	write   bool
	writeTo string
	test    bool

	workers int

	configPath string
}

func main() {
	f := &flags{}
	var inputPath, groupsPath string

	root := &cobra.Command{
		Use:   "gomus [flags] [input]",
		Short: "Extract a minimal unsatisfiable subformula (group-MUS) from a CNF/GCNF instance",
		Long: `gomus reads a DIMACS CNF, GCNF, or VGCNF instance, partitioned into
groups with group 0 reserved for background clauses that must always
survive, and shrinks it to one minimal unsatisfiable subset (MUS).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				inputPath = args[0]
			}
			return run(f, inputPath, groupsPath)
		},
	}

	root.Flags().IntVarP(&f.verbosity, "verbosity", "v", 0, "verbosity level, -1 to 5")
	root.Flags().IntVarP(&f.deadline, "deadline", "T", 0, "wall-clock deadline in seconds; 0 = none")
	root.Flags().BoolVar(&f.grp, "grp", false, "input is GCNF; output preserves groups")
	root.Flags().StringVar(&groupsPath, "vgcnf-groups", "", "path to the VGCNF variable->group assignment document")
	root.Flags().BoolVar(&f.nomus, "nomus", false, "preprocessing only, no extraction")

	root.Flags().BoolVar(&f.ins, "ins", false, "use the insertion strategy")
	root.Flags().BoolVar(&f.dich, "dich", false, "use the dichotomic strategy")
	root.Flags().BoolVar(&f.prog, "prog", false, "use the progression strategy")
	root.Flags().IntVar(&f.chunk, "chunk", 0, "use the chunked strategy with this chunk size")
	root.Flags().IntVar(&f.subsetM, "subset", 0, "use the subset strategy with this subset size (M)")
	root.Flags().IntVar(&f.subsetS, "subset-step", 0, "subset strategy step size (S); accepted, not yet wired (see DESIGN.md)")
	root.Flags().IntVar(&f.subsetL, "subset-limit", 0, "subset strategy size limit (L); accepted, not yet wired (see DESIGN.md)")

	root.Flags().BoolVar(&f.norf, "norf", false, "disable refinement")

	root.Flags().BoolVar(&f.norot, "norot", false, "disable model rotation")
	root.Flags().BoolVar(&f.emr, "emr", false, "use extended model rotation")
	root.Flags().BoolVar(&f.imr, "imr", false, "use implicit (basic recursive) model rotation")
	root.Flags().IntVar(&f.smr, "smr", 0, "use depth-bounded model rotation with this depth (D)")

	root.Flags().BoolVar(&f.rr, "rr", false, "enable static redundancy removal")
	root.Flags().BoolVar(&f.rra, "rra", false, "enable adaptive redundancy removal")

	root.Flags().IntVar(&f.trim, "trim", 0, "maximum trim iterations; 0 = no cap")
	root.Flags().Float64Var(&f.tprct, "tprct", 0, "stop trimming once relative reduction falls below this fraction")
	root.Flags().BoolVar(&f.tfp, "tfp", false, "trim to a literal fixpoint")
	root.Flags().BoolVar(&f.ichk, "ichk", false, "run an initial UNSAT check before trimming/extraction")

	root.Flags().IntVar(&f.order, "order", 0, "group scheduling order (0=default 1=longest-first 2=shortest-first 3=random 4=reverse)")
	root.Flags().IntVar(&f.polarity, "ph", 3, "default variable polarity: 0=false 1=true 2=random 3=solver default")

	root.Flags().BoolVar(&f.comp, "comp", false, "competition output format")
	root.Flags().BoolVarP(&f.write, "write", "w", false, "write the MUS to a default output file")
	root.Flags().StringVar(&f.writeTo, "wf", "", "write the MUS to this file")
	root.Flags().BoolVar(&f.test, "test", false, "re-run extraction on the result to verify minimality")

	root.Flags().IntVar(&f.workers, "workers", 1, "degree of parallelism for the concurrent group-check warm-up pass; 1 = canonical single-threaded behavior")

	root.Flags().StringVar(&f.configPath, "config", "gomus.yaml", "project defaults file")

	root.PreRunE = func(cmd *cobra.Command, args []string) error {
		d, err := config.Load(f.configPath)
		if err != nil {
			return err
		}
		applyDefaults(cmd, f, d)
		if f.verbosity >= 0 {
			log.SetLevel(verbosityToLevel(f.verbosity))
		}
		return nil
	}

	if err := root.Execute(); err != nil {
		log.Error(err)
		os.Exit(engine.ExitUsage)
	}
}

// applyDefaults fills any flag the user did not pass on argv from the
// project's gomus.yaml, matching generate.go's own "flags win" precedent
// (there, a required flag; here, optional ones layered under explicit
// pflag values via cmd.Flags().Changed).
func applyDefaults(cmd *cobra.Command, f *flags, d *config.Defaults) {
	changed := cmd.Flags().Changed
	if !changed("verbosity") && d.Verbosity != 0 {
		f.verbosity = d.Verbosity
	}
	if !changed("deadline") && d.Deadline != 0 {
		f.deadline = d.Deadline
	}
	if !changed("chunk") && d.ChunkSize != 0 {
		f.chunk = d.ChunkSize
	}
	if !changed("subset") && d.SubsetMin != 0 {
		f.subsetM = d.SubsetMin
	}
	if !changed("subset-step") && d.SubsetStep != 0 {
		f.subsetS = d.SubsetStep
	}
	if !changed("subset-limit") && d.SubsetMax != 0 {
		f.subsetL = d.SubsetMax
	}
	if !changed("norf") && d.DisableRefinement {
		f.norf = true
	}
	switch d.Rotation {
	case "emr":
		if !changed("emr") && !changed("imr") && !changed("norot") && !changed("smr") {
			f.emr = true
		}
	case "imr":
		if !changed("emr") && !changed("imr") && !changed("norot") && !changed("smr") {
			f.imr = true
		}
	case "none":
		if !changed("emr") && !changed("imr") && !changed("norot") && !changed("smr") {
			f.norot = true
		}
	}
	if !changed("smr") && d.RotationDepth != 0 {
		f.smr = d.RotationDepth
	}
	if !changed("rr") && d.RedundancyRemoval {
		f.rr = true
	}
	if !changed("rra") && d.AdaptiveRedundancyRemoval {
		f.rra = true
	}
	if !changed("trim") && d.TrimIterations != 0 {
		f.trim = d.TrimIterations
	}
	if !changed("tprct") && d.TrimPercent != 0 {
		f.tprct = d.TrimPercent
	}
	if !changed("tfp") && d.TrimToFixpoint {
		f.tfp = true
	}
	if !changed("ichk") && d.InitialSatCheck {
		f.ichk = true
	}
	if !changed("ph") && d.Polarity != 0 {
		f.polarity = d.Polarity
	}
	if !changed("comp") && d.Competition {
		f.comp = true
	}
	if !changed("wf") && d.WriteFile != "" {
		f.writeTo = d.WriteFile
		f.write = true
	}
	if !changed("test") && d.Verify {
		f.test = true
	}
	if !changed("workers") && d.Workers != 0 {
		f.workers = d.Workers
	}
}

func verbosityToLevel(v int) log.Level {
	switch {
	case v <= 0:
		return log.WarnLevel
	case v == 1:
		return log.InfoLevel
	default:
		return log.DebugLevel
	}
}

func run(f *flags, inputPath, groupsPath string) error {
	gs, err := readInput(f, inputPath, groupsPath)
	if err != nil {
		return err
	}

	opts := toOptions(f)
	res, err := engine.Run(gs, opts)
	if err != nil {
		return err
	}

	if res.Message != "" {
		log.Info(res.Message)
	}

	if err := writeOutput(f, res); err != nil {
		return err
	}

	os.Exit(res.ExitCode)
	return nil
}

func readInput(f *flags, inputPath, groupsPath string) (*cnf.GroupSet, error) {
	var in *os.File
	var err error
	if inputPath == "" {
		in = os.Stdin
	} else {
		in, err = os.Open(inputPath)
		if err != nil {
			return nil, err
		}
		defer in.Close()
	}

	if groupsPath != "" {
		groups, err := os.Open(groupsPath)
		if err != nil {
			return nil, err
		}
		defer groups.Close()
		return format.ReadVGCNF(in, groups)
	}

	mode := format.ModeCNF
	if f.grp {
		mode = format.ModeGCNF
	}
	return format.Read(in, mode)
}

func toOptions(f *flags) engine.Options {
	o := engine.Options{
		Strategy:          strategyKind(f),
		ChunkSize:         f.chunk,
		SubsetM:           f.subsetM,
		DisableRefinement: f.norf,
		Rotate:            rotateVariant(f),
		RotationDepth:     f.smr,
		UseRR:             f.rr,
		AdaptiveRR:        f.rra,
		RunBCP:            true,
		RunBCE:            true,
		RunVE:             true,
		VEMaxGrowth:       0,
		TrimIterations:    f.trim,
		TrimPercent:       f.tprct,
		TrimToFixpoint:    f.tfp,
		InitialSatCheck:   f.ichk,
		Order:             schedulerOrder(f.order),
		NoMUS:             f.nomus,
		Verify:            f.test,
		Workers:           f.workers,
		Log:               log.StandardLogger(),
	}
	if f.deadline > 0 {
		o.Deadline = time.Duration(f.deadline) * time.Second
	}
	return o
}

func strategyKind(f *flags) engine.StrategyKind {
	switch {
	case f.ins:
		return engine.StrategyInsertion
	case f.dich:
		return engine.StrategyDichotomic
	case f.prog:
		return engine.StrategyProgression
	case f.chunk > 0:
		return engine.StrategyChunked
	case f.subsetM > 0:
		return engine.StrategySubset
	default:
		return engine.StrategyDeletion
	}
}

func rotateVariant(f *flags) strategy.RotateVariant {
	switch {
	case f.norot:
		return strategy.RotateNone
	case f.emr:
		return strategy.RotateEMR
	case f.smr > 0:
		return strategy.RotateSiert
	case f.imr:
		return strategy.RotateRMR
	default:
		return strategy.RotateRMR
	}
}

func schedulerOrder(n int) scheduler.Order {
	switch n {
	case 1:
		return scheduler.OrderLongestFirst
	case 2:
		return scheduler.OrderShortestFirst
	case 3:
		return scheduler.OrderRandom
	case 4:
		return scheduler.OrderReverse
	default:
		return scheduler.OrderDefault
	}
}

func writeOutput(f *flags, res *engine.Result) error {
	var w *os.File
	switch {
	case f.writeTo != "":
		out, err := os.Create(f.writeTo)
		if err != nil {
			return err
		}
		defer out.Close()
		w = out
	case f.write:
		out, err := os.Create("gomus.out")
		if err != nil {
			return err
		}
		defer out.Close()
		w = out
	default:
		w = os.Stdout
	}

	if res.Groups == nil {
		return nil
	}

	switch {
	case f.comp:
		return format.WriteCompetition(w, res.Survivors, false)
	case f.grp:
		return format.WriteGCNF(w, res.Groups)
	default:
		return format.WriteCNF(w, res.Groups)
	}
}
