package main

import (
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/IsmailM/TriFusion/internal/util"
	"github.com/IsmailM/TriFusion/logger"
	"github.com/IsmailM/TriFusion/pkg/orthomcl"
	"github.com/IsmailM/TriFusion/pkg/seqstore"
	"go.uber.org/zap"
)

// groupsList collects repeatable, comma-separated -groups values.
type groupsList []string

func (g *groupsList) String() string { return strings.Join(*g, ",") }

func (g *groupsList) Set(value string) error {
	for _, p := range strings.Split(value, ",") {
		if p = strings.TrimSpace(p); p != "" {
			*g = append(*g, p)
		}
	}
	return nil
}

func main() {

	VERSION := "0.1.0"

	var (
		groupsFiles      groupsList
		geneThreshold    int
		speciesThreshold int
		prefix           string
		outDir           string
		seqDB            string
		overlap          bool
		logLevel         string
	)

	flag.Var(&groupsFiles, "groups", "OrthoMCL groups file (repeatable, comma-separated)")
	flag.IntVar(&geneThreshold, "gene-threshold", -1, "maximum gene copies per species (-1 disables filtering)")
	flag.IntVar(&speciesThreshold, "species-threshold", -1, "minimum distinct species per cluster (-1 disables filtering)")
	flag.StringVar(&prefix, "prefix", orthomcl.DefaultPrefix, "prefix for output file names")
	flag.StringVar(&outDir, "out", "", "output directory (default: TRIFUSION_OUT, then .)")
	flag.StringVar(&seqDB, "seqdb", "", "sequence database for FASTA export (.fas/.fasta file or .db/.sqlite database)")
	flag.BoolVar(&overlap, "overlap", false, "report the exact-set cluster overlap (needs exactly two groups files)")
	flag.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	// Establish logger
	level, levelErr := logger.ParseLevel(logLevel)
	if err := logger.InitLogger(level); err != nil {
		panic(err)
	}
	if levelErr != nil {
		logger.Warn("Unknown log level, using info", zap.String("given", logLevel))
	}

	// Try load env
	dotenvErr := godotenv.Load()

	if dotenvErr != nil {
		logger.Warn("No .env found, using local environment")
	}

	defer logger.Sync() // Make sure that the buffered is flushed.

	if outDir == "" {
		outDir = os.Getenv("TRIFUSION_OUT")

		if outDir == "" {
			logger.Warn("No local environment (TRIFUSION_OUT), using default value (.)")
			outDir = "."
		}
	}

	runID := "run-" + uuid.New().String()
	logger.Info("Start:", zap.String("Version", VERSION), zap.String("Run", runID))

	if len(groupsFiles) == 0 {
		logger.Fatal("No groups files given, use -groups")
	}

	// Both thresholds must be present for filtering, as the toolbox
	// filters eagerly during parse.
	var thresholds *orthomcl.Thresholds
	if geneThreshold >= 0 && speciesThreshold >= 0 {
		thresholds = &orthomcl.Thresholds{
			MaxGeneCopies: geneThreshold,
			MinSpecies:    speciesThreshold,
		}
	} else if geneThreshold >= 0 || speciesThreshold >= 0 {
		logger.Warn("Only one threshold given, skipping filtering",
			zap.Int("gene", geneThreshold), zap.Int("species", speciesThreshold))
	}

	if err := util.EnsureDir(outDir); err != nil {
		logger.Fatal("Cannot create output directory", zap.String("dir", outDir), zap.Error(err))
	}

	multi, err := orthomcl.ParseMultiGroups(groupsFiles, prefix, thresholds)
	if err != nil {
		logger.Fatal("Parsing groups failed", zap.Error(err))
	}

	filtered := thresholds != nil

	for _, group := range multi.Groups {
		stats := group.BasicStatistics(false)
		logger.Info("Parsed groups file",
			zap.String("file", group.Name),
			zap.Int("clusters", stats.Clusters),
			zap.Int("sequences", stats.Sequences),
			zap.Int("species", len(group.SpeciesList)))

		base := filepath.Base(group.Name)

		paralogOut := filepath.Join(outDir, multi.Prefix+"."+base+".paralogs.csv")
		if err := group.WriteParalogReport(paralogOut, filtered); err != nil {
			logger.Fatal("Paralog report failed", zap.String("file", paralogOut), zap.Error(err))
		}

		if filtered {
			exportOut := filepath.Join(outDir, multi.Prefix+".filtered_"+base)
			exportStats, err := group.ExportFilteredFile(exportOut, true)
			if err != nil {
				logger.Fatal("Filtered export failed", zap.String("file", exportOut), zap.Error(err))
			}
			logger.Info("Exported filtered groups",
				zap.String("file", exportOut),
				zap.Int("species compliant", exportStats.SpeciesCompliant),
				zap.Int("gene compliant", exportStats.GeneCompliant),
				zap.Int("exported", exportStats.Exported))
		}
	}

	if err := multi.WriteBasicStatistics(outDir, orthomcl.DefaultStatisticsName); err != nil {
		logger.Fatal("Multigroup statistics failed", zap.Error(err))
	}

	if seqDB != "" {
		store, closeStore, err := openStore(seqDB)
		if err != nil {
			logger.Fatal("Cannot open sequence database", zap.String("db", seqDB), zap.Error(err))
		}

		fastaDir := filepath.Join(outDir, "Orthologs")
		for _, group := range multi.Groups {
			if err := group.RetrieveFasta(store, fastaDir, filtered); err != nil {
				closeStore()
				logger.Fatal("FASTA retrieval failed", zap.String("file", group.Name), zap.Error(err))
			}
		}
		if err := closeStore(); err != nil {
			logger.Error("Closing sequence database failed", zap.Error(err))
		}
		logger.Info("Wrote per-cluster FASTA files", zap.String("dir", fastaDir))
	}

	if overlap {
		shared, err := multi.GroupOverlap()
		if err != nil {
			logger.Fatal("Group overlap failed", zap.Error(err))
		}
		logger.Info("Group overlap", zap.Int("shared clusters", shared))
	}
}

// openStore picks the store backend by file extension: .db/.sqlite go
// through SQLite, everything else is read as FASTA.
func openStore(path string) (seqstore.Store, func() error, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		store, err := seqstore.OpenSQL(path)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	}

	store, err := seqstore.OpenFasta(path)
	if err != nil {
		return nil, nil, err
	}
	return store, func() error { return nil }, nil
}
