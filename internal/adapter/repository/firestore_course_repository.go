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
	coursesCollection      = "courses"
	courseTitlesCollection = "course_titles"
)

type firestoreCourseRepository struct {
	client *firestore.Client
}

func NewFirestoreCourseRepository(client *firestore.Client) repository.CourseRepository {
	return &firestoreCourseRepository{
		client: client,
	}
}

// Create claims course_titles/{titleKey} in the same transaction as the
// course document; the reservation is what makes titles unique.
func (r *firestoreCourseRepository) Create(ctx context.Context, course *entity.Course) error {
	if course.ID == "" {
		course.ID = uuid.New().String()
	}

	now := time.Now()
	course.CreatedAt = now
	course.UpdatedAt = now

	courseRef := r.client.Collection(coursesCollection).Doc(course.ID)
	titleRef := r.client.Collection(courseTitlesCollection).Doc(course.TitleKey)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(titleRef); err == nil {
			return errors.Conflict("A course with this title already exists")
		} else if status.Code(err) != codes.NotFound {
			return err
		}

		if err := tx.Create(titleRef, map[string]interface{}{"courseId": course.ID}); err != nil {
			return err
		}
		return tx.Create(courseRef, course)
	})
	return translateWriteError(err, "A course with this title already exists", "Failed to create course")
}

func (r *firestoreCourseRepository) GetByID(ctx context.Context, id string) (*entity.Course, error) {
	doc, err := r.client.Collection(coursesCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Course", err)
		}
		return nil, errors.Internal("Failed to get course", err)
	}

	var course entity.Course
	if err := doc.DataTo(&course); err != nil {
		return nil, errors.Internal("Failed to parse course data", err)
	}

	return &course, nil
}

func (r *firestoreCourseRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Course, error) {
	courses := make(map[string]*entity.Course, len(ids))
	refs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range uniqueStrings(ids) {
		refs = append(refs, r.client.Collection(coursesCollection).Doc(id))
	}
	if len(refs) == 0 {
		return courses, nil
	}

	docs, err := r.client.GetAll(ctx, refs)
	if err != nil {
		return nil, errors.Internal("Failed to get courses", err)
	}

	for _, doc := range docs {
		if !doc.Exists() {
			continue
		}
		var course entity.Course
		if err := doc.DataTo(&course); err != nil {
			return nil, errors.Internal("Failed to parse course data", err)
		}
		courses[course.ID] = &course
	}

	return courses, nil
}

func (r *firestoreCourseRepository) List(ctx context.Context) ([]*entity.Course, error) {
	return r.collect(r.client.Collection(coursesCollection).Documents(ctx))
}

func (r *firestoreCourseRepository) FindByRequiredSkills(ctx context.Context, keys []string) ([]*entity.Course, error) {
	var courses []*entity.Course
	for _, chunk := range chunkStrings(uniqueStrings(keys), firestoreInLimit) {
		found, err := r.collect(r.client.Collection(coursesCollection).Where("requiredSkillKey", "in", chunk).Documents(ctx))
		if err != nil {
			return nil, err
		}
		courses = append(courses, found...)
	}

	sortCoursesByCreation(courses)
	return courses, nil
}

// collect drains iter and returns the courses oldest first. Sorting happens
// here rather than with OrderBy so no composite index is needed.
func (r *firestoreCourseRepository) collect(iter *firestore.DocumentIterator) ([]*entity.Course, error) {
	defer iter.Stop()

	var courses []*entity.Course
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			logger.Error("Firestore error while iterating courses: %v", err)
			return nil, errors.Internal("Failed to list courses", err)
		}

		var course entity.Course
		if err := doc.DataTo(&course); err != nil {
			return nil, errors.Internal("Failed to parse course data", err)
		}
		courses = append(courses, &course)
	}

	sortCoursesByCreation(courses)
	return courses, nil
}

func (r *firestoreCourseRepository) Update(ctx context.Context, course *entity.Course) error {
	course.UpdatedAt = time.Now()
	courseRef := r.client.Collection(coursesCollection).Doc(course.ID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(courseRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Course", err)
			}
			return err
		}

		var current entity.Course
		if err := doc.DataTo(&current); err != nil {
			return err
		}

		if current.TitleKey != course.TitleKey {
			newRef := r.client.Collection(courseTitlesCollection).Doc(course.TitleKey)
			if _, err := tx.Get(newRef); err == nil {
				return errors.Conflict("A course with this title already exists")
			} else if status.Code(err) != codes.NotFound {
				return err
			}
			oldRef, err := r.ownedTitle(tx, current.TitleKey, course.ID)
			if err != nil {
				return err
			}
			if err := tx.Create(newRef, map[string]interface{}{"courseId": course.ID}); err != nil {
				return err
			}
			if oldRef != nil {
				if err := tx.Delete(oldRef); err != nil {
					return err
				}
			}
		}

		course.CreatedAt = current.CreatedAt
		return tx.Set(courseRef, course)
	})
	return translateWriteError(err, "A course with this title already exists", "Failed to update course")
}

// Delete removes the course and releases its title reservation.
func (r *firestoreCourseRepository) Delete(ctx context.Context, id string) error {
	courseRef := r.client.Collection(coursesCollection).Doc(id)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(courseRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Course", err)
			}
			return err
		}

		var course entity.Course
		if err := doc.DataTo(&course); err != nil {
			return err
		}

		titleRef, err := r.ownedTitle(tx, course.TitleKey, id)
		if err != nil {
			return err
		}
		if titleRef != nil {
			if err := tx.Delete(titleRef); err != nil {
				return err
			}
		}
		return tx.Delete(courseRef)
	})
	return translateWriteError(err, "", "Failed to delete course")
}

// ownedTitle returns the title reservation for titleKey when it points at
// courseID, and nil otherwise. Legacy duplicates share a key with the course
// that owns it, so theirs must never be released. Reads only, so it has to
// run before the transaction's first write.
func (r *firestoreCourseRepository) ownedTitle(tx *firestore.Transaction, titleKey, courseID string) (*firestore.DocumentRef, error) {
	titleRef := r.client.Collection(courseTitlesCollection).Doc(titleKey)
	titleDoc, err := tx.Get(titleRef)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if owner, _ := titleDoc.Data()["courseId"].(string); owner != courseID {
		return nil, nil
	}
	return titleRef, nil
}

func sortCoursesByCreation(courses []*entity.Course) {
	sort.SliceStable(courses, func(i, j int) bool {
		return courses[i].CreatedAt.Before(courses[j].CreatedAt)
	})
}
