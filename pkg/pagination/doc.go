// Package pagination turns page windows into remote fetches and implements
// the cross-page bulk selection walk.
//
// Pager loads one page window at a time:
//
//	pager := pagination.NewPager(apiClient)
//	res, err := pager.LoadPage(ctx, 3, 10) // rows 21..30
//
// BulkSelector walks the collection from page 1 until it has accumulated N
// records or the source reports the last page:
//
//	selector := pagination.NewBulkSelector(apiClient, pagination.DefaultBulkConfig())
//	res, err := selector.Select(ctx, 25)
//	// res.Selected holds the first 25 records in collection order
//	// res.Preview holds at most 12 of them for display
//
// The walk is strictly serial: each page is requested only after the previous
// one arrived. The walk always uses the bulk page width (by default the
// source's own default width), never the display page size. Cancelling ctx
// stops the walk before the next request. Any failure aborts the whole walk
// and no partial result is returned.
package pagination
