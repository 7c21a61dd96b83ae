// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

package models

// Product is one purchasable catalog item as seen by the recommendation pipeline.
//
// The catalog fills ItemID through ShopName. SourceKeyword is set by the fetcher
// to the search keyword that first produced the item in the current request, and
// PreScore is set by the local scorer before selection.
//
// Example:
//
//	{
//	  "itemId": "shop-a:10000123",
//	  "name": "Wagyu sukiyaki slices 500g",
//	  "price": 20000,
//	  "reviewCount": 100,
//	  "reviewAverage": 4.6,
//	  "sourceKeyword": "beef",
//	  "preScore": 64.6
//	}
type Product struct {
	ItemID        string  `json:"itemId"`
	Name          string  `json:"name"`
	Price         int     `json:"price"`
	ReviewCount   int     `json:"reviewCount"`
	ReviewAverage float64 `json:"reviewAverage"`
	URL           string  `json:"url,omitempty"`
	ImageURL      string  `json:"imageUrl,omitempty"`
	ShopName      string  `json:"shopName,omitempty"`
	SourceKeyword string  `json:"sourceKeyword,omitempty"`
	PreScore      float64 `json:"preScore"`
}

// CatalogPage is the payload stored in the persisted catalog cache: the items
// one normalized search returned and when they were fetched.
type CatalogPage struct {
	Items     []Product `json:"items"`
	UpdatedAt int64     `json:"updatedAt"` // epoch milliseconds
}

// SearchQuery is one catalog search. A nil MaxPrice sends no price ceiling.
type SearchQuery struct {
	Keyword  string `json:"keyword"`
	MaxPrice *int   `json:"maxPrice,omitempty"`
	Hits     int    `json:"hits"`
}
