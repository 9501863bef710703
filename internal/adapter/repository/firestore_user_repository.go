package repository

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"skillswap/internal/domain/entity"
	"skillswap/internal/domain/repository"
	"skillswap/pkg/errors"
	"skillswap/pkg/logger"
)

const (
	usersCollection      = "users"
	userEmailsCollection = "user_emails"
)

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

// Create writes the user together with a user_emails/{email} reservation in
// one transaction, so two registrations for the same address cannot both land.
func (r *firestoreUserRepository) Create(ctx context.Context, user *entity.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.Email = entity.NormalizeEmail(user.Email)

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	userRef := r.client.Collection(usersCollection).Doc(user.ID)
	emailRef := r.client.Collection(userEmailsCollection).Doc(user.Email)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(emailRef); err == nil {
			return errors.Conflict("Email already registered")
		} else if status.Code(err) != codes.NotFound {
			return err
		}

		if err := tx.Create(emailRef, map[string]interface{}{"userId": user.ID}); err != nil {
			return err
		}
		return tx.Create(userRef, user)
	})
	return translateWriteError(err, "Email already registered", "Failed to create user")
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	doc, err := r.client.Collection(usersCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("User", err)
		}
		return nil, errors.Internal("Failed to get user", err)
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}

	return &user, nil
}

func (r *firestoreUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := r.client.Collection(usersCollection).Where("email", "==", entity.NormalizeEmail(email)).Limit(1)
	iter := query.Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, errors.NotFound("User", nil)
	}
	if err != nil {
		return nil, errors.Internal("Failed to query user by email", err)
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}

	return &user, nil
}

func (r *firestoreUserRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.User, error) {
	users := make(map[string]*entity.User, len(ids))
	refs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range uniqueStrings(ids) {
		refs = append(refs, r.client.Collection(usersCollection).Doc(id))
	}
	if len(refs) == 0 {
		return users, nil
	}

	docs, err := r.client.GetAll(ctx, refs)
	if err != nil {
		return nil, errors.Internal("Failed to get users", err)
	}

	for _, doc := range docs {
		if !doc.Exists() {
			continue
		}
		var user entity.User
		if err := doc.DataTo(&user); err != nil {
			return nil, errors.Internal("Failed to parse user data", err)
		}
		users[user.ID] = &user
	}

	return users, nil
}

func (r *firestoreUserRepository) List(ctx context.Context) ([]*entity.User, error) {
	return r.ListExcept(ctx, "")
}

func (r *firestoreUserRepository) ListExcept(ctx context.Context, id string) ([]*entity.User, error) {
	iter := r.client.Collection(usersCollection).Documents(ctx)
	defer iter.Stop()

	var users []*entity.User
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			logger.Error("Firestore error while iterating users: %v", err)
			return nil, errors.Internal("Failed to list users", err)
		}
		if doc.Ref.ID == id {
			continue
		}

		var user entity.User
		if err := doc.DataTo(&user); err != nil {
			return nil, errors.Internal("Failed to parse user data", err)
		}
		users = append(users, &user)
	}

	sort.SliceStable(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})

	return users, nil
}

// Update rewrites the profile. An email change moves the reservation inside
// the same transaction.
func (r *firestoreUserRepository) Update(ctx context.Context, user *entity.User) error {
	user.Email = entity.NormalizeEmail(user.Email)
	user.UpdatedAt = time.Now()

	userRef := r.client.Collection(usersCollection).Doc(user.ID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(userRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("User", err)
			}
			return err
		}

		var current entity.User
		if err := doc.DataTo(&current); err != nil {
			return err
		}

		if current.Email != user.Email {
			newRef := r.client.Collection(userEmailsCollection).Doc(user.Email)
			if _, err := tx.Get(newRef); err == nil {
				return errors.Conflict("Email already registered")
			} else if status.Code(err) != codes.NotFound {
				return err
			}
			if err := tx.Create(newRef, map[string]interface{}{"userId": user.ID}); err != nil {
				return err
			}
			if err := tx.Delete(r.client.Collection(userEmailsCollection).Doc(current.Email)); err != nil {
				return err
			}
		}

		return tx.Set(userRef, map[string]interface{}{
			"name":           user.Name,
			"email":          user.Email,
			"skillsToTeach":  user.SkillsToTeach,
			"skillsToLearn":  user.SkillsToLearn,
			"profilePicture": user.ProfilePicture,
			"updatedAt":      user.UpdatedAt,
		}, firestore.MergeAll)
	})
	return translateWriteError(err, "Email already registered", "Failed to update user")
}

func (r *firestoreUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	_, err := r.client.Collection(usersCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "passwordHash", Value: passwordHash},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("User", err)
		}
		return errors.Internal("Failed to update password", err)
	}
	return nil
}

func (r *firestoreUserRepository) Delete(ctx context.Context, id string) error {
	userRef := r.client.Collection(usersCollection).Doc(id)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(userRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("User", err)
			}
			return err
		}

		var user entity.User
		if err := doc.DataTo(&user); err != nil {
			return err
		}

		if err := tx.Delete(r.client.Collection(userEmailsCollection).Doc(user.Email)); err != nil {
			return err
		}
		return tx.Delete(userRef)
	})
	return translateWriteError(err, "", "Failed to delete user")
}
