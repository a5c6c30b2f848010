package repositories

import (
	"context"

	"tierlist-restful/models"
)

// TreeReader serializes rows with their nested children using one query per
// level (User → Tierlists → Categories → Elements), so the cost of a listing
// does not grow with the number of parents.
type TreeReader struct {
	tierlists  TierlistRepository
	categories CategoryRepository
	elements   ElementRepository
}

func (r TreeReader) Users(ctx context.Context, users []models.User) ([]models.UserView, error) {
	ids := make([]uint, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	tierlists, err := r.tierlists.FindByCreators(ctx, ids)
	if err != nil {
		return nil, err
	}
	tierlistViews, err := r.Tierlists(ctx, tierlists)
	if err != nil {
		return nil, err
	}

	byUser := make(map[uint][]models.TierlistView, len(users))
	for _, tv := range tierlistViews {
		byUser[tv.CreatedBy] = append(byUser[tv.CreatedBy], tv)
	}

	views := make([]models.UserView, len(users))
	for i, u := range users {
		views[i] = u.Serialize(byUser[u.ID])
	}
	return views, nil
}

func (r TreeReader) Tierlists(ctx context.Context, tierlists []models.Tierlist) ([]models.TierlistView, error) {
	ids := make([]uint, len(tierlists))
	for i, t := range tierlists {
		ids[i] = t.ID
	}
	categories, err := r.categories.FindByTierlists(ctx, ids)
	if err != nil {
		return nil, err
	}
	categoryViews, err := r.Categories(ctx, categories)
	if err != nil {
		return nil, err
	}

	byTierlist := make(map[uint][]models.CategoryView, len(tierlists))
	for _, cv := range categoryViews {
		byTierlist[cv.TierlistID] = append(byTierlist[cv.TierlistID], cv)
	}

	views := make([]models.TierlistView, len(tierlists))
	for i, t := range tierlists {
		views[i] = t.Serialize(byTierlist[t.ID])
	}
	return views, nil
}

func (r TreeReader) Categories(ctx context.Context, categories []models.Category) ([]models.CategoryView, error) {
	ids := make([]uint, len(categories))
	for i, c := range categories {
		ids[i] = c.ID
	}
	elements, err := r.elements.FindByCategories(ctx, ids)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[uint][]models.ElementView, len(categories))
	for _, e := range elements {
		byCategory[e.CategoryID] = append(byCategory[e.CategoryID], e.Serialize())
	}

	views := make([]models.CategoryView, len(categories))
	for i, c := range categories {
		views[i] = c.Serialize(byCategory[c.ID])
	}
	return views, nil
}

// Elements has no children to load; it exists so every entity serializes
// through the same reader.
func (r TreeReader) Elements(elements []models.Element) []models.ElementView {
	views := make([]models.ElementView, len(elements))
	for i, e := range elements {
		views[i] = e.Serialize()
	}
	return views
}
