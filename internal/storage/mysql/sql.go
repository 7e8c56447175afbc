package mysql

const upsertHotelSQL = `
INSERT INTO hotels
  (id, name, base_price_per_night, star_rating, amenities, average_rating,
   review_count, available_rooms, city, address, raw)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name                 = VALUES(name),
  base_price_per_night = VALUES(base_price_per_night),
  star_rating          = VALUES(star_rating),
  amenities            = VALUES(amenities),
  average_rating       = VALUES(average_rating),
  review_count         = VALUES(review_count),
  available_rooms      = VALUES(available_rooms),
  city                 = VALUES(city),
  address              = VALUES(address),
  raw                  = VALUES(raw),
  updated_at           = CURRENT_TIMESTAMP
`

const deleteRoomsSQL = `DELETE FROM hotel_rooms WHERE hotel_id = ?`

// position keeps the order the inventory declared rooms in.
const insertRoomsPrefix = "INSERT INTO hotel_rooms\n  (hotel_id, id, position, name, max_occupancy, price_per_night)\nVALUES "

const deletePackagesSQL = `DELETE FROM tour_packages WHERE hotel_id = ?`

const insertPackagesPrefix = "INSERT INTO tour_packages\n  (id, hotel_id, package_name, package_price, discount_percentage)\nVALUES "

const insertPackagesOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  hotel_id            = VALUES(hotel_id),\n" +
	"  package_name        = VALUES(package_name),\n" +
	"  package_price       = VALUES(package_price),\n" +
	"  discount_percentage = VALUES(discount_percentage),\n" +
	"  updated_at          = CURRENT_TIMESTAMP\n"

const insertMissSQL = `
INSERT INTO ingest_misses (id, http_status, reason)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE
  http_status = VALUES(http_status),
  reason      = VALUES(reason),
  seen_at     = CURRENT_TIMESTAMP
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const hotelColumns = `
  h.id,
  h.name,
  h.base_price_per_night,
  h.star_rating,
  h.amenities,
  h.average_rating,
  h.review_count,
  h.available_rooms,
  h.city,
  h.address
`

const getHotelSQL = `SELECT` + hotelColumns + `FROM hotels h WHERE h.id = ?`

// listHotelsSQL is completed by the repo with optional filters, ORDER BY and LIMIT.
const listHotelsSQL = `SELECT` + hotelColumns + `FROM hotels h WHERE 1=1`

// roomsByHotelsPrefix is completed with an IN (...) list.
const roomsByHotelsPrefix = `
SELECT hotel_id, id, name, max_occupancy, price_per_night
FROM hotel_rooms
WHERE hotel_id IN `

const roomsByHotelsOrder = ` ORDER BY hotel_id, position`

const listPackagesSQL = `
SELECT id, hotel_id, package_name, package_price, discount_percentage
FROM tour_packages
WHERE hotel_id = ?
ORDER BY id
`
