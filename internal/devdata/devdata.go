// Package devdata carga usuarios, perros y reservas de ejemplo en entornos dev.
package devdata

import (
	"context"
	"fmt"

	"doggy-daycare/internal/domain/bookings"
	"doggy-daycare/internal/domain/dogs"
	"doggy-daycare/internal/domain/users"
	"doggy-daycare/internal/platform/civil"

	"github.com/rs/zerolog"
)

type Seeder struct {
	Users       *users.Service
	Dogs        *dogs.Service
	Bookings    *bookings.Service
	BookingRepo bookings.Repository // para cargar historial con horas reales
	Log         zerolog.Logger
}

// Summary cuenta lo creado por Seed.
type Summary struct {
	Users    int
	Dogs     int
	Bookings int
}

// Seed crea los datos de ejemplo solo si no hay usuarios.
// Devuelve seeded=false cuando no hizo nada.
func (s Seeder) Seed(ctx context.Context) (sum Summary, seeded bool, err error) {
	n, err := s.Users.Count(ctx)
	if err != nil {
		return Summary{}, false, fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		s.Log.Info().Int("users", n).Msg("dev data already present, skipping")
		return Summary{}, false, nil
	}

	s.Log.Info().Msg("initializing dev data")

	created := make(map[string]users.User, 4)
	for _, in := range seedUsers {
		u, err := s.Users.Create(ctx, in)
		if err != nil {
			return sum, false, fmt.Errorf("seed user %s: %w", in.Email, err)
		}
		created[in.Email] = u
		sum.Users++
	}
	ownerOne := created["ownerone@doggydaycare.com"]
	ownerTwo := created["ownertwo@doggydaycare.com"]

	dog := func(name string, age int, breed, info string, owner users.User) (dogs.Dog, error) {
		d, err := s.Dogs.Create(ctx, dogs.CreateInput{Name: name, Age: &age, Breed: breed, Info: info, UserID: owner.ID})
		if err != nil {
			return dogs.Dog{}, fmt.Errorf("seed dog %s: %w", name, err)
		}
		sum.Dogs++
		return d, nil
	}
	bonnie, err := dog("Bonnie", 1, "Labrador", "Friendly and energetic, love treats but on a diet", ownerOne)
	if err != nil {
		return sum, false, err
	}
	peggy, err := dog("Peggy", 2, "Pitbull", "Gets cold on walks and uses a jacket", ownerOne)
	if err != nil {
		return sum, false, err
	}
	gunvald, err := dog("Gunvald", 3, "Golden Retriever", "Needs a lot of attention", ownerTwo)
	if err != nil {
		return sum, false, err
	}

	today := s.Bookings.Today()
	book := func(d dogs.Dog, owner users.User, date civil.Date, in, out civil.Time, notes string) (bookings.Booking, error) {
		b, err := s.Bookings.Create(ctx, bookings.CreateInput{
			DogID: d.ID, BookedByID: owner.ID, Date: date,
			ExpectedCheckIn: &in, ExpectedCheckOut: &out, Notes: &notes,
		})
		if err != nil {
			return bookings.Booking{}, fmt.Errorf("seed booking %s %s: %w", d.Name, date, err)
		}
		sum.Bookings++
		return b, nil
	}

	if _, err := book(bonnie, ownerOne, today, hm(8, 0), hm(16, 0), "First daycare visit for Bonnie"); err != nil {
		return sum, false, err
	}

	past, err := book(peggy, ownerOne, today.AddDays(-1), hm(8, 30), hm(15, 30), "Peggy was calm and playful")
	if err != nil {
		return sum, false, err
	}
	if err := past.CheckIn(hm(8, 25)); err != nil {
		return sum, false, err
	}
	if err := past.CheckOut(hm(15, 20)); err != nil {
		return sum, false, err
	}
	if err := s.BookingRepo.Update(ctx, past); err != nil {
		return sum, false, fmt.Errorf("seed booking history: %w", err)
	}

	sick, err := book(gunvald, ownerTwo, today.AddDays(1), hm(9, 0), hm(17, 0), "Owner cancelled due to sickness")
	if err != nil {
		return sum, false, err
	}
	if _, err := s.Bookings.Cancel(ctx, sick.ID); err != nil {
		return sum, false, fmt.Errorf("seed cancellation: %w", err)
	}

	for _, in := range seedUsers {
		if in.Role == users.RoleOwner {
			s.Log.Info().Str("email", in.Email).Str("password", in.Password).Msg("dev owner login")
		}
	}
	s.Log.Info().
		Int("users", sum.Users).
		Int("dogs", sum.Dogs).
		Int("bookings", sum.Bookings).
		Msg("dev data ready")

	return sum, true, nil
}

func hm(h, m int) civil.Time { return civil.Time{Hour: h, Minute: m} }

var seedUsers = []users.CreateInput{
	{
		Email: "admin@doggydaycare.com", Password: "admin123",
		FirstName: "Admin", LastName: "User",
		MobileNumber: "+46701234567", EmergencyContact: "+46701234568",
		Role: users.RoleAdmin,
	},
	{
		Email: "staff@doggydaycare.com", Password: "staff123",
		FirstName: "Staff", LastName: "Member",
		MobileNumber: "+46702345678", EmergencyContact: "+46702345679",
		Role: users.RoleStaff,
	},
	{
		Email: "ownerone@doggydaycare.com", Password: "ownerone123",
		FirstName: "Dog", LastName: "Owner",
		MobileNumber: "+46703456789", EmergencyContact: "+46703456780",
		Role: users.RoleOwner,
	},
	{
		Email: "ownertwo@doggydaycare.com", Password: "ownertwo123",
		FirstName: "Doggy", LastName: "OwnerTwo",
		MobileNumber: "+46703451984", EmergencyContact: "+46703336781",
		Role: users.RoleOwner,
	},
}
