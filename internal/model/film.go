package model

// Film carries the full attributes of a film joined with its category.
// Nullable schema columns (description, release_year, length, rating)
// are pointers so JSON output distinguishes absent from zero.
//
// Fields:
//  FilmID          – primary key identifier.
//  Title           – film title.
//  Description     – synopsis text, if any.
//  ReleaseYear     – year of release, if recorded.
//  Rating          – MPAA rating (G, PG, PG-13, R, NC-17).
//  Length          – running time in minutes.
//  RentalRate      – price per rental period.
//  ReplacementCost – charge for a lost copy.
//  CategoryName    – name of the film's category.
type Film struct {
	FilmID          uint64   `json:"film_id"`
	Title           string   `json:"title"`
	Description     *string  `json:"description"`
	ReleaseYear     *int     `json:"release_year"`
	Rating          *string  `json:"rating"`
	Length          *int     `json:"length"`
	RentalRate      float64  `json:"rental_rate"`
	ReplacementCost float64  `json:"replacement_cost"`
	CategoryName    string   `json:"category_name"`
}

// FilmListItem is the compact row returned by the paginated film listing.
type FilmListItem struct {
	FilmID       uint64  `json:"film_id"`
	Title        string  `json:"title"`
	CategoryName string  `json:"category_name"`
	Rating       *string `json:"rating"`
	RentalRate   float64 `json:"rental_rate"`
}

// RentalStats aggregates rental history for one film.  AvgRentalDuration is
// in days and nil when the film has no completed rentals.
type RentalStats struct {
	TotalRentals      int64    `json:"total_rentals"`
	UniqueCustomers   int64    `json:"unique_customers"`
	AvgRentalDuration *float64 `json:"avg_rental_duration"`
}

// InventorySummary counts the physical copies of a film across stores.  A
// copy is rented while an open rental row references it; availability is
// always recomputed, inventory itself has no status column.
type InventorySummary struct {
	TotalCopies     int64 `json:"total_copies"`
	RentedCopies    int64 `json:"rented_copies"`
	AvailableCopies int64 `json:"available_copies"`
}

// FilmDetail is the response body for a single film: the film attributes
// plus its cast ordered by last then first name, rental statistics and the
// inventory summary.
type FilmDetail struct {
	Film
	Actors      []Actor          `json:"actors"`
	RentalStats RentalStats      `json:"rental_stats"`
	Inventory   InventorySummary `json:"inventory"`
}

// RankedFilm is a film annotated with its rental count, used by the
// top-rented listings.  Films that were never rented rank with count 0.
type RankedFilm struct {
	FilmID       uint64 `json:"film_id"`
	Title        string `json:"title"`
	CategoryName string `json:"category_name"`
	RentalCount  int64  `json:"rental_count"`
}
