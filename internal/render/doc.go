// Package render provides the page renderer capability used by the
// crawler: loading a URL and returning its rendered HTML together with
// the outbound link URLs found on the page.
//
// Two implementations are provided. ChromeRenderer drives a headless
// Chrome instance via chromedp and sees JavaScript-generated content.
// StaticRenderer performs a plain HTTP fetch and parses anchors from
// the static markup; it is faster and has no browser dependency.
//
// Managed wraps either implementation with a health check and lazy
// reacquisition so that a broken render session is replaced before the
// next fetch instead of failing the rest of the crawl.
package render
