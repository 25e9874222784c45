package services

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "github.com/adrianpop47/second-brain-app-sub000/internal/errors"
	"github.com/adrianpop47/second-brain-app-sub000/internal/models"
	"github.com/adrianpop47/second-brain-app-sub000/internal/testutil"
)

// reloadUser reads the user row back, including the fields hidden from JSON.
func reloadUser(t *testing.T, db *gorm.DB, id uint) models.User {
	t.Helper()
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		t.Fatalf("reload user %d: %v", id, err)
	}
	return user
}

func TestCreateUser(t *testing.T) {
	t.Run("normalises_email_and_hashes_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		user, err := NewUserService(db).CreateUser("  Alice@Example.COM ", "password123", "Alice", "Smith")
		testutil.AssertNoError(t, err)

		stored := reloadUser(t, db, user.ID)
		if stored.Email != "alice@example.com" {
			t.Errorf("expected lower-cased trimmed email, got %q", stored.Email)
		}
		if stored.FirstName != "Alice" || stored.LastName != "Smith" {
			t.Errorf("expected Alice Smith, got %q %q", stored.FirstName, stored.LastName)
		}
		if !stored.IsActive {
			t.Error("expected new user to be active")
		}
		if stored.Password == "password123" {
			t.Fatal("password stored in plain text")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("password123")); err != nil {
			t.Errorf("stored hash does not match: %v", err)
		}
	})

	t.Run("duplicate_ignores_case", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("dup@example.com", "password123", "", "")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser("DUP@example.com", "password456", "", "")
		testutil.AssertIs(t, err, apperrors.ErrDuplicateEmail)
	})

	t.Run("missing_credentials", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		for _, tc := range []struct{ email, password string }{
			{"", "password123"},
			{"a@example.com", ""},
		} {
			_, err := svc.CreateUser(tc.email, tc.password, "", "")
			testutil.AssertAppError(t, err, "INVALID_INPUT")
		}
	})
}

func TestGetUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)
	user := testutil.CreateTestUserWithEmail(t, db, "bob@example.com")

	t.Run("by_email_any_case", func(t *testing.T) {
		got, err := svc.GetUserByEmail("Bob@Example.com")
		testutil.AssertNoError(t, err)
		if got.ID != user.ID {
			t.Errorf("expected user %d, got %d", user.ID, got.ID)
		}
	})

	t.Run("by_id_missing", func(t *testing.T) {
		_, err := svc.GetUserByID(user.ID + 100)
		testutil.AssertIs(t, err, apperrors.ErrUserNotFound)
	})

	t.Run("inactive_hidden_from_email_lookup", func(t *testing.T) {
		other := testutil.CreateTestUserWithEmail(t, db, "gone@example.com")
		if err := db.Model(other).Update("is_active", false).Error; err != nil {
			t.Fatalf("deactivate: %v", err)
		}
		_, err := svc.GetUserByEmail("gone@example.com")
		testutil.AssertIs(t, err, apperrors.ErrUserNotFound)
	})
}

func TestAttemptLogin(t *testing.T) {
	t.Run("unknown_email_looks_like_wrong_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		_, err := NewUserService(db).AttemptLogin("nobody@example.com", "password123")
		testutil.AssertIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("success_clears_failures", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		for i := 0; i < maxFailedLogins-1; i++ {
			_, err := svc.AttemptLogin(user.Email, "wrong")
			testutil.AssertIs(t, err, apperrors.ErrInvalidCredentials)
		}
		if got := reloadUser(t, db, user.ID).FailedLoginAttempts; got != maxFailedLogins-1 {
			t.Fatalf("expected %d failures recorded, got %d", maxFailedLogins-1, got)
		}

		_, err := svc.AttemptLogin(user.Email, "password123")
		testutil.AssertNoError(t, err)

		stored := reloadUser(t, db, user.ID)
		if stored.FailedLoginAttempts != 0 || stored.LockedUntil != nil {
			t.Errorf("expected counters cleared, got %d failures, locked until %v", stored.FailedLoginAttempts, stored.LockedUntil)
		}
		if stored.LastLoginAt == nil {
			t.Error("expected last login to be recorded")
		}
	})

	t.Run("locks_after_fifth_failure", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		before := time.Now()
		for i := 0; i < maxFailedLogins; i++ {
			_, err := svc.AttemptLogin(user.Email, "wrong")
			testutil.AssertIs(t, err, apperrors.ErrInvalidCredentials)
		}

		stored := reloadUser(t, db, user.ID)
		if stored.LockedUntil == nil {
			t.Fatal("expected the account to be locked")
		}
		if stored.LockedUntil.Before(before.Add(lockoutDuration - time.Minute)) {
			t.Errorf("lock ends too early: %v", stored.LockedUntil)
		}

		// The correct password is refused while the lock holds.
		_, err := svc.AttemptLogin(user.Email, "password123")
		testutil.AssertIs(t, err, apperrors.ErrAccountLocked)
	})

	t.Run("expired_lock_allows_login", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		if err := db.Model(user).Updates(map[string]interface{}{
			"failed_login_attempts": maxFailedLogins,
			"locked_until":          time.Now().Add(-time.Minute),
		}).Error; err != nil {
			t.Fatalf("seed lock: %v", err)
		}

		_, err := svc.AttemptLogin(user.Email, "password123")
		testutil.AssertNoError(t, err)
		if reloadUser(t, db, user.ID).LockedUntil != nil {
			t.Error("expected the stale lock to be cleared")
		}
	})
}

func TestRefreshTokenHash(t *testing.T) {
	t.Run("store_unknown_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		err := NewUserService(db).StoreRefreshTokenHash(999, "hash")
		testutil.AssertIs(t, err, apperrors.ErrUserNotFound)
	})

	t.Run("rotation_is_single_use", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.AssertNoError(t, svc.StoreRefreshTokenHash(user.ID, "first"))
		testutil.AssertNoError(t, svc.RotateRefreshTokenHash(user.ID, "first", "second"))

		// Replaying the first token must not move the hash again.
		err := svc.RotateRefreshTokenHash(user.ID, "first", "third")
		testutil.AssertIs(t, err, apperrors.ErrInvalidToken)

		got, err := svc.GetRefreshTokenHash(user.ID)
		testutil.AssertNoError(t, err)
		if got != "second" {
			t.Errorf("expected hash second, got %q", got)
		}
	})

	t.Run("login_invalidates_outstanding_token", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.AssertNoError(t, svc.StoreRefreshTokenHash(user.ID, "from-register"))
		testutil.AssertNoError(t, svc.StoreRefreshTokenHash(user.ID, "from-login"))

		err := svc.RotateRefreshTokenHash(user.ID, "from-register", "next")
		testutil.AssertIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("empty_hash_never_matches", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)

		err := NewUserService(db).RotateRefreshTokenHash(user.ID, "", "next")
		testutil.AssertIs(t, err, apperrors.ErrInvalidToken)
		if got := reloadUser(t, db, user.ID).RefreshTokenHash; got != "" {
			t.Errorf("expected no hash stored, got %q", got)
		}
	})

	t.Run("other_users_hash_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		alice := testutil.CreateTestUser(t, db)
		bob := testutil.CreateTestUser(t, db)

		testutil.AssertNoError(t, svc.StoreRefreshTokenHash(alice.ID, "alice-token"))

		err := svc.RotateRefreshTokenHash(bob.ID, "alice-token", "stolen")
		testutil.AssertIs(t, err, apperrors.ErrInvalidToken)
	})
}
