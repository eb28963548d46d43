package dbfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/inodb/vibe-proteoform/internal/bio"
	"github.com/inodb/vibe-proteoform/internal/registry"
	"github.com/inodb/vibe-proteoform/internal/vcf"
)

// Kinds accepted in PolymerRecord.Kind.
const (
	KindProtein = "protein"
	KindRNA     = "rna"
)

// Database is a loaded polymer database.
type Database struct {
	Path     string
	Proteins *registry.Registry[*bio.Protein]
	RNAs     *registry.Registry[*bio.RNA]
	// Skipped counts variants and modifications dropped while loading.
	Skipped int
}

// Loader builds databases. Problems with individual variants or
// modifications are logged and skipped; structural problems fail the load.
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a loader that logs to logger, or nowhere when nil.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger}
}

// LoadFile reads a YAML document from path.
func (l *Loader) LoadFile(path string) (*Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read database: %w", err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse database %s: %w", path, err)
	}

	if doc.VCF != "" && !filepath.IsAbs(doc.VCF) {
		doc.VCF = filepath.Join(filepath.Dir(path), doc.VCF)
	}

	db, err := l.Build(&doc)
	if err != nil {
		return nil, fmt.Errorf("load database %s: %w", path, err)
	}
	db.Path = path
	return db, nil
}

// Build turns a parsed document into registries.
func (l *Loader) Build(doc *Document) (*Database, error) {
	db := &Database{}
	db.Proteins, db.RNAs = newRegistries()

	var index *vcf.Index
	if doc.VCF != "" {
		var err error
		index, err = vcf.LoadIndex(doc.VCF)
		if err != nil {
			return nil, err
		}
	}

	fields := make([]bio.Fields, len(doc.Polymers))
	byAcc := make(map[string]int, len(doc.Polymers))
	for i, rec := range doc.Polymers {
		if rec.Accession == "" {
			return nil, fmt.Errorf("polymer %d: missing accession", i+1)
		}
		if _, dup := byAcc[rec.Accession]; dup {
			return nil, fmt.Errorf("polymer %s: duplicate accession", rec.Accession)
		}
		if kind := normalizeKind(rec.Kind); kind != KindProtein && kind != KindRNA {
			return nil, fmt.Errorf("polymer %s: unknown kind %q", rec.Accession, rec.Kind)
		}
		byAcc[rec.Accession] = i
		fields[i] = l.polymerFields(rec, db)
	}

	for _, rec := range doc.Polymers {
		for _, vr := range rec.Variants {
			target := rec.Accession
			if vr.Isoform != "" {
				target = vr.Isoform
			}
			ti, ok := byAcc[target]
			if !ok {
				l.logger.Warn("skipping variant for unknown isoform",
					zap.String("accession", rec.Accession),
					zap.String("isoform", target))
				db.Skipped++
				continue
			}
			sv, ok := l.variation(rec.Accession, vr, index, db)
			if !ok {
				continue
			}
			fields[ti].SequenceVariations = append(fields[ti].SequenceVariations, sv)
		}
	}

	for i, rec := range doc.Polymers {
		var err error
		switch normalizeKind(rec.Kind) {
		case KindRNA:
			err = db.RNAs.AddIsoform(bio.NewRNA(fields[i]), rec.IsoformOf)
		default:
			err = db.Proteins.AddIsoform(bio.NewProtein(fields[i]), rec.IsoformOf)
		}
		if err != nil {
			return nil, err
		}
	}

	l.logger.Debug("loaded polymer database",
		zap.Int("proteins", db.Proteins.Len()),
		zap.Int("rnas", db.RNAs.Len()),
		zap.Int("skipped", db.Skipped))
	return db, nil
}

func newRegistries() (*registry.Registry[*bio.Protein], *registry.Registry[*bio.RNA]) {
	return registry.New[*bio.Protein](), registry.New[*bio.RNA]()
}

func normalizeKind(kind string) string {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == "" {
		return KindProtein
	}
	return kind
}

func (l *Loader) polymerFields(rec PolymerRecord, db *Database) bio.Fields {
	f := bio.Fields{
		Accession:     rec.Accession,
		Name:          rec.Name,
		FullName:      rec.FullName,
		Organism:      rec.Organism,
		Sequence:      strings.ToUpper(strings.Join(strings.Fields(rec.Sequence), "")),
		Modifications: make(bio.ModificationMap),
		IsContaminant: rec.Contaminant,
	}

	for _, m := range rec.Modifications {
		if m.Position < 1 || m.Position > len(f.Sequence) || m.ID == "" {
			l.logger.Warn("skipping modification",
				zap.String("accession", rec.Accession),
				zap.String("id", m.ID),
				zap.Int("position", m.Position))
			db.Skipped++
			continue
		}
		f.Modifications.Append(m.Position, modification(m))
	}
	for _, t := range rec.Truncations {
		f.TruncationProducts = append(f.TruncationProducts, &bio.TruncationProduct{Begin: t.Begin, End: t.End, Type: t.Type})
	}
	for _, d := range rec.DisulfideBonds {
		f.DisulfideBonds = append(f.DisulfideBonds, &bio.DisulfideBond{Begin: d.Begin, End: d.End, Description: d.Description})
	}
	for _, s := range rec.SpliceSites {
		f.SpliceSites = append(f.SpliceSites, &bio.SpliceSite{Begin: s.Begin, End: s.End, Description: s.Description})
	}
	return f
}

func modification(m ModificationRecord) *bio.Modification {
	loc := m.Location
	if loc == "" {
		loc = bio.LocationAnywhere
	}
	return &bio.Modification{ID: m.ID, Motif: m.Motif, Location: loc, Type: m.Type, MonoisotopicMass: m.Mass}
}

// variation builds one variant. Invalid coordinates and unresolved call
// references skip the variant; illegal modification sites skip only the
// modification.
func (l *Loader) variation(accession string, vr VariantRecord, index *vcf.Index, db *Database) (*bio.SequenceVariation, bool) {
	log := l.logger.With(zap.String("accession", accession), zap.Int("begin", vr.Begin), zap.Int("end", vr.End))

	var call *bio.VariantCallRecord
	switch {
	case vr.VCF != "":
		call = vcf.ParseCallRecord(vr.VCF)
	case vr.VCFRef != "":
		if index == nil {
			log.Warn("skipping variant: vcf_ref without a vcf file", zap.String("vcf_ref", vr.VCFRef))
			db.Skipped++
			return nil, false
		}
		v, ok := index.Lookup(vr.VCFRef)
		if !ok {
			log.Warn("skipping variant: unresolved vcf_ref", zap.String("vcf_ref", vr.VCFRef))
			db.Skipped++
			return nil, false
		}
		call = v.CallRecord()
	}

	batch := make([]bio.PositionedModification, 0, len(vr.Modifications))
	mods := make(bio.ModificationMap)
	for _, m := range vr.Modifications {
		mod := modification(m)
		batch = append(batch, bio.PositionedModification{Position: m.Position, Modification: mod})
		mods.Append(m.Position, mod)
	}

	// A same-sequence edit is only valid with its modifications attached.
	if vr.Original == vr.Variant {
		sv, err := bio.NewSequenceVariation(vr.Begin, vr.End, vr.Original, vr.Variant, vr.Description, call, mods)
		if err != nil {
			log.Warn("skipping variant", zap.Error(err))
			db.Skipped++
			return nil, false
		}
		return sv, true
	}

	sv, err := bio.NewSequenceVariation(vr.Begin, vr.End, vr.Original, vr.Variant, vr.Description, call, nil)
	if err != nil {
		log.Warn("skipping variant", zap.Error(err))
		db.Skipped++
		return nil, false
	}

	_, skipped, _ := sv.AddModifications(batch, false)
	for _, s := range skipped {
		log.Warn("skipping variant modification", zap.Int("position", s.Position), zap.Error(s.Reason))
		db.Skipped++
	}
	return sv, true
}
