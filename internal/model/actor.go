package model

// Actor identifies a performer.  Actors relate to films through the
// film_actor join table.
type Actor struct {
	ActorID   uint64 `json:"actor_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ActorFilm is one film in an actor's filmography with its category.
type ActorFilm struct {
	FilmID       uint64 `json:"film_id"`
	Title        string `json:"title"`
	CategoryName string `json:"category_name"`
}

// ActorDetail is the response body for a single actor: attributes plus the
// ordered list of films they appear in.
type ActorDetail struct {
	Actor
	Films []ActorFilm `json:"films"`
}

// RankedActor is an actor annotated with the number of films they appear
// in.  Used by the top-actors listing and by name search results.
type RankedActor struct {
	ActorID   uint64 `json:"actor_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FilmCount int64  `json:"film_count"`
}
