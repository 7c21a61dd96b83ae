// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

package catalog

import "github.com/tomtom215/shortlist/internal/models"

// searchResponse mirrors the item search JSON (formatVersion 1).
type searchResponse struct {
	Count int           `json:"count"`
	Hits  int           `json:"hits"`
	Items []itemWrapper `json:"Items"`
}

type itemWrapper struct {
	Item apiItem `json:"Item"`
}

type apiItem struct {
	ItemCode        string     `json:"itemCode"`
	ItemName        string     `json:"itemName"`
	ItemPrice       int        `json:"itemPrice"`
	ReviewCount     int        `json:"reviewCount"`
	ReviewAverage   float64    `json:"reviewAverage"`
	ItemURL         string     `json:"itemUrl"`
	AffiliateURL    string     `json:"affiliateUrl"`
	ShopName        string     `json:"shopName"`
	MediumImageURLs []imageURL `json:"mediumImageUrls"`
}

type imageURL struct {
	ImageURL string `json:"imageUrl"`
}

// products converts the payload, dropping entries without an item code.
func (r *searchResponse) products() []models.Product {
	out := make([]models.Product, 0, len(r.Items))
	for _, w := range r.Items {
		it := w.Item
		if it.ItemCode == "" {
			continue
		}
		p := models.Product{
			ItemID:        it.ItemCode,
			Name:          it.ItemName,
			Price:         it.ItemPrice,
			ReviewCount:   it.ReviewCount,
			ReviewAverage: it.ReviewAverage,
			URL:           it.ItemURL,
			ShopName:      it.ShopName,
		}
		if it.AffiliateURL != "" {
			p.URL = it.AffiliateURL
		}
		if len(it.MediumImageURLs) > 0 {
			p.ImageURL = it.MediumImageURLs[0].ImageURL
		}
		out = append(out, p)
	}
	return out
}
