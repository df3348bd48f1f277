package records

import (
	"context"
	"slices"
)

// SaveFavorite inserts f, or replaces in place the favorite with the same
// city and country.
func (r *Records) SaveFavorite(ctx context.Context, f Favorite) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	favorites, err := readList[Favorite](ctx, r.kv, KeyFavorites)
	if err != nil {
		return err
	}

	i := slices.IndexFunc(favorites, func(existing Favorite) bool {
		return existing.City == f.City && existing.Country == f.Country
	})
	if i >= 0 {
		favorites[i] = f
	} else {
		favorites = append(favorites, f)
	}
	return write(ctx, r.kv, KeyFavorites, favorites)
}

func (r *Records) Favorites(ctx context.Context) ([]Favorite, error) {
	return readList[Favorite](ctx, r.kv, KeyFavorites)
}

// RemoveFavorite drops the favorite with the given id. Unknown ids are ignored.
func (r *Records) RemoveFavorite(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	favorites, err := readList[Favorite](ctx, r.kv, KeyFavorites)
	if err != nil {
		return err
	}
	favorites = slices.DeleteFunc(favorites, func(f Favorite) bool { return f.ID == id })
	return write(ctx, r.kv, KeyFavorites, favorites)
}
