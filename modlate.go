// Package modlate translates Hytale mod localization files.
//
// Modlate extracts translatable strings from mod asset formats (.lang, .ui,
// manifest.json, generic JSON, bundled HTML pages), translates them through
// pluggable providers with caching, batching, rate limiting, and retries,
// and merges the results back without touching the surrounding structure.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/hytale-tools/modlate"
//	    "github.com/hytale-tools/modlate/cache"
//	    "github.com/hytale-tools/modlate/format"
//	    "github.com/hytale-tools/modlate/provider"
//	)
//
//	func main() {
//	    p := provider.NewOpenAIProvider(provider.OpenAIConfig{
//	        APIKey: os.Getenv("OPENAI_API_KEY"),
//	    })
//	    client := modlate.NewClient(p, modlate.DefaultClientConfig())
//
//	    pipe := modlate.NewPipeline("en", "ru", client,
//	        modlate.WithCache(cache.NewMemoryCache()),
//	        modlate.WithFormats(format.All()...),
//	    )
//
//	    outputs, report, err := pipe.Run(context.Background(), []modlate.FileJob{
//	        {Name: "Server/Languages/en-US/items.lang", Format: "lang", Data: data},
//	    })
//	    ...
//	}
package modlate
