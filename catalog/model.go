package catalog

// Item is a sellable product stored in the catalog.
// Price is kept in the smallest currency unit (toman) as an integer.
type Item struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	Price       int64  `db:"price"`
}
