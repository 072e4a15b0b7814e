// Package stockwatch values a personal multi-asset portfolio over time from
// fetched daily prices, keeping incremental on-disk caches so that repeated
// runs only fetch what changed since the last one.
//
// The core functionalities include:
//   - Price Retrieval: Fetching daily open/close prices per asset from a
//     market data provider and normalizing them into a per-asset value series
//     with two samples per trading day and a provisional live sample.
//   - Incremental Caching: Persisting the historical part of every value
//     series as one wide table, so a later run only refetches from the last
//     cached day; memoizing foreign exchange rates by currency and date.
//   - Currency Normalization: Converting every sample into minor units of a
//     single base currency using the rate of the sample's own date.
//   - Portfolio Aggregation: Aligning all positions onto a common daily
//     calendar and merging them into one series of aggregate value, book cost
//     and derived change metrics.
//
// This package serves as the foundational logic for the `sw` command-line
// tool.
package stockwatch
