package buckets

import (
	. "github.com/Nathan-JzSu/qwt/table"
)

// MT: Constant after initialization; immutable
var bucketFormatters = map[string]Formatter[*BucketRow]{
	"Label": {
		Fmt:  func(d *BucketRow, ctx PrintMods) string { return FormatString(d.Label, ctx) },
		Help: "(string) Bucket label",
	},
	"Slots": {
		Fmt:  func(d *BucketRow, ctx PrintMods) string { return FormatString(d.Slots, ctx) },
		Help: "(string) Core counts the bucket covers",
	},
	"Count": {
		Fmt:  func(d *BucketRow, ctx PrintMods) string { return FormatInt(d.Count, ctx) },
		Help: "(int) A core count given with -slots",
	},
	"Bucket": {
		Fmt:  func(d *BucketRow, ctx PrintMods) string { return FormatString(d.Bucket, ctx) },
		Help: "(string) The bucket of the core count",
	},
	"Group": {
		Fmt:  func(d *BucketRow, ctx PrintMods) string { return FormatString(d.Group, ctx) },
		Help: "(string) The equal-width group of the core count",
	},
}

func init() {
	DefAlias(bucketFormatters, "Label", "label")
	DefAlias(bucketFormatters, "Slots", "slots")
	DefAlias(bucketFormatters, "Count", "count")
	DefAlias(bucketFormatters, "Bucket", "bucket")
	DefAlias(bucketFormatters, "Group", "group")
}

// MT: Constant after initialization; immutable
var bucketAliases = map[string][]string{
	"table":  {"label", "slots"},
	"assign": {"count", "bucket"},
}
