package config

// ///////////////////////////////////////////////
// Documentation Types
// ///////////////////////////////////////////////

// FieldDoc holds documentation and alternative examples for a single
// manifest field. The genmanifest tool uses [FieldDoc] values to annotate
// the generated manifest.default.toml.
type FieldDoc struct {
	// Comment is shown as a header comment above the field in the example manifest.
	Comment string

	// Alternatives are shown as commented-out lines below the active value.
	Alternatives []string
}

// ///////////////////////////////////////////////
// Field Documentation Map
// ///////////////////////////////////////////////

// ManifestDocs maps TOML field paths (dot-separated, e.g.
// "jobs.reframe.mode") to their [FieldDoc] entries. The genmanifest tool
// uses this map to annotate the generated manifest.default.toml with
// inline comments and alternative examples.
var ManifestDocs = map[string]FieldDoc{
	// ── Root ──────────────────────────────────────────────────────
	"version": {
		Comment: "Manifest schema version — do not edit.",
	},
	"workers": {
		Comment: "Images processed in parallel within a job. 0 = one worker per CPU.",
	},

	// ── Log ──────────────────────────────────────────────────────
	"log": {
		Comment: "Logging configuration",
	},
	"log.level": {
		Comment: "Minimum log level. Options: \"trace\", \"debug\", \"info\", \"warn\", \"error\"",
		Alternatives: []string{
			`level = "debug"`,
			`level = "warn"`,
		},
	},
	"log.file": {
		Comment: "Optional log file (rotated by size). Empty logs to stderr only.\nUseful for long-lived watch sessions.",
		Alternatives: []string{
			`file = "tileforge.log"`,
		},
	},
	"log.max_size_mb": {
		Comment: "Maximum log file size in megabytes before rotation.",
	},

	// ── Jobs ─────────────────────────────────────────────────────
	"jobs": {
		Comment: "Pipeline jobs, run in order. Each job applies one transform to every\nmatched input. A later job may consume an earlier job's output_dir.",
	},
	"jobs.name": {
		Comment: "Job name, used to select jobs on the command line: tileforge run frames",
	},
	"jobs.type": {
		Comment: "Transform type. Options: \"reframe\", \"slice\", \"normalize\"\n  reframe:   reshape the ring band of a hex frame\n  slice:     cut a sprite sheet into individual icons\n  normalize: key out background, crop, and fit onto a square canvas",
	},
	"jobs.inputs": {
		Comment: "Input images: filesystem globs (** supported) and http(s) URLs.\nRemote inputs are downloaded to the user cache and reused offline.",
	},
	"jobs.output_dir": {
		Comment: "Where outputs land, created on demand. Empty = overwrite inputs in place\n(slice jobs and jobs with remote inputs always need one).",
	},

	// ── Reframe ──────────────────────────────────────────────────
	"jobs.reframe": {
		Comment: "Ring reshaping parameters.",
	},
	"jobs.reframe.mode": {
		Comment: "Operation. Options: \"squash\", \"remask\", \"erode\"\n  squash: radially compress ring content into a thinner band\n  remask: re-cut the alpha channel only, pixels stay in place\n  erode:  morphologically thin the opaque silhouette",
		Alternatives: []string{
			`mode = "remask"`,
			`mode = "erode"`,
		},
	},
	"jobs.reframe.orientation": {
		Comment: "Hex orientation. Options: \"pointy\" (vertices up/down), \"flat\"",
		Alternatives: []string{
			`orientation = "flat"`,
		},
	},
	"jobs.reframe.thickness_factor": {
		Comment: "Fraction of the ring width to keep, in (0, 1]. 0.5 halves the band.",
	},
	"jobs.reframe.edge_softness": {
		Comment: "Feather width of the cut alpha edge, in pixels.",
	},
	"jobs.reframe.alpha_threshold": {
		Comment: "Pixels must exceed this alpha (0-255) to count as ring content\nwhen the band bounds are estimated.",
	},
	"jobs.reframe.inner_percentile": {
		Comment: "Percentiles of the content distance distribution that define the\nband bounds. The defaults shave outlier speckle off both ends.",
	},
	"jobs.reframe.outer_percentile": {},
	"jobs.reframe.shrink_policy": {
		Comment: "Which side of the band gives up the removed width.\nOptions: \"symmetric\", \"inner\", \"outer\"\n  symmetric: keep the band midline, thin both sides\n  inner:     keep the outer edge, grow the hole\n  outer:     keep the inner edge, pull the silhouette in",
		Alternatives: []string{
			`shrink_policy = "inner"`,
			`shrink_policy = "outer"`,
		},
	},
	"jobs.reframe.alpha_policy": {
		Comment: "How the edge mask combines with content alpha.\nOptions: \"sampled\" (multiply, keeps interior transparency detail),\n\"geometric\" (hard min, clean geometric edge)",
		Alternatives: []string{
			`alpha_policy = "geometric"`,
		},
	},
	"jobs.reframe.margin": {
		Comment: "Extra pixels warped around the target band so the feathered edge\nhas resampled neighbors.",
	},
	"jobs.reframe.erode_iterations": {
		Comment: "Erosion steps for mode \"erode\".",
		Alternatives: []string{
			`erode_iterations = 3`,
		},
	},

	// ── Slice ────────────────────────────────────────────────────
	"jobs.slice": {
		Comment: "Sheet extraction parameters.",
	},
	"jobs.slice.mode": {
		Comment: "Cell detection. Options: \"columns\", \"grid\"\n  columns: find icon columns from the sheet's alpha projection\n  grid:    cut a fixed grid_cols x grid_rows grid",
		Alternatives: []string{
			`mode = "grid"`,
		},
	},
	"jobs.slice.grid_cols": {
		Comment: "Grid shape (mode \"grid\" only). Rows default to 1.",
		Alternatives: []string{
			`grid_cols = 4`,
		},
	},
	"jobs.slice.grid_rows": {
		Alternatives: []string{
			`grid_rows = 2`,
		},
	},
	"jobs.slice.names": {
		Comment: "Output names in sheet order; icons beyond the list are dropped with\na warning. Omit to auto-number (icon_01, icon_02, ...).",
	},
	"jobs.slice.alpha_threshold": {
		Comment: "Zero out alpha at or below this value (0-255) before detection,\nkilling compression speckle. 0 = keep the sheet as-is.",
	},
	"jobs.slice.projection_threshold": {
		Comment: "Column occupancy: a column counts as content when its summed alpha\nexceeds this. 0 = any non-transparent pixel.",
	},
	"jobs.slice.min_width": {
		Comment: "Drop detected columns narrower than this many pixels.",
	},
	"jobs.slice.merge_gap": {
		Comment: "Merge neighboring columns separated by fewer than this many empty pixels.",
	},
	"jobs.slice.padding": {
		Comment: "Transparent pixels around each icon's content.",
	},
	"jobs.slice.uniform": {
		Comment: "Size every icon to the largest content box plus padding, centered,\nso the set aligns when stacked. false = tight per-icon crops.",
	},
	"jobs.slice.max_size": {
		Comment: "Downscale icons whose longest edge exceeds this. 0 = never scale.",
		Alternatives: []string{
			`max_size = 256`,
		},
	},

	// ── Normalize ────────────────────────────────────────────────
	"jobs.normalize": {
		Comment: "Texture normalization parameters.",
	},
	"jobs.normalize.canvas_size": {
		Comment: "Square output edge in pixels. Content is scaled to fill it minus the\nmargin and centered. 0 = crop to content, no canvas, no scaling.",
	},
	"jobs.normalize.margin": {
		Comment: "Canvas fraction kept clear around content. 0.1 leaves a 10% border.",
	},
	"jobs.normalize.white_threshold": {
		Comment: "Key out near-white background: pixels with R, G, and B all above\nthis (0-255) become transparent. 0 = no keying.",
	},
	"jobs.normalize.alpha_threshold": {
		Comment: "Pixels must exceed this alpha (0-255) to count as content when cropping.",
	},
}
