// Package scraper fetches schedule pages and turns them into rows of text fragments.
//
// A Target names a page URL plus the goquery selectors for its rows and cells.
// The fetcher downloads the page with a bounded timeout and retry count, decodes
// its charset, and splits every cell into whitespace-trimmed fragments at <br>
// and block-element boundaries. Source adapters only ever see these fragments,
// never markup. Results can be cached per target for a bounded time.
package scraper
