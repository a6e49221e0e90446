package telemetry

// TracerName is the instrumentation scope for spans created by this service.
const TracerName = "github.com/samirrijal/dongne"

// Span names.
const (
	SpanSearch = "listings.search"
)

// Span attribute keys.
const (
	AttrRadiusKm = "search.radius_km"
	AttrPage     = "search.page"
	AttrLimit    = "search.limit"
	AttrDegraded = "search.degraded"
	AttrCacheHit = "search.cache_hit"
	AttrResults  = "search.results"
)
