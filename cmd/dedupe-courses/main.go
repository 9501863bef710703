// Command dedupe-courses reports courses whose titles collide under the
// unique title key and, with -apply, deletes all but the oldest of each group.
package main

import (
	"context"
	"flag"
	"os"

	"cloud.google.com/go/firestore"

	"skillswap/internal/adapter/repository"
	"skillswap/internal/domain/entity"
	domainrepo "skillswap/internal/domain/repository"
	"skillswap/internal/infrastructure/database"
	"skillswap/internal/infrastructure/firebase"
	"skillswap/pkg/config"
	"skillswap/pkg/logger"
)

type duplicateGroup struct {
	Key        string
	Keep       *entity.Course
	Duplicates []*entity.Course
}

func main() {
	apply := flag.Bool("apply", false, "Delete duplicates instead of only reporting them")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	courses, closeStore, err := openCourseRepository(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to open %s store: %v", cfg.StoreDriver, err)
	}
	defer closeStore()

	removed, err := run(ctx, courses, *apply)
	if err != nil {
		logger.Error("Dedupe failed: %v", err)
		os.Exit(1)
	}

	if *apply {
		logger.Info("Deleted %d duplicate course(s)", removed)
	} else {
		logger.Info("Dry run: %d course(s) would be deleted; rerun with -apply", removed)
	}
}

// run returns the number of courses deleted, or that would be deleted when
// apply is false.
func run(ctx context.Context, courses domainrepo.CourseRepository, apply bool) (int, error) {
	all, err := courses.List(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, group := range findDuplicates(all) {
		logger.Info("Title key %q: keeping %s (%q)", group.Key, group.Keep.ID, group.Keep.Title)
		for _, dup := range group.Duplicates {
			logger.Info("  duplicate %s (%q, created %s)", dup.ID, dup.Title, dup.CreatedAt.Format("2006-01-02 15:04:05"))
			if apply {
				if err := courses.Delete(ctx, dup.ID); err != nil {
					return count, err
				}
			}
			count++
		}
	}
	return count, nil
}

// findDuplicates groups courses by title key. The input is oldest first, so
// the first course of each key is the one kept.
func findDuplicates(courses []*entity.Course) []duplicateGroup {
	index := make(map[string]int)
	var groups []duplicateGroup

	for _, course := range courses {
		key := entity.CourseTitleKey(course.Title)
		if i, ok := index[key]; ok {
			groups[i].Duplicates = append(groups[i].Duplicates, course)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, duplicateGroup{Key: key, Keep: course})
	}

	duplicates := groups[:0]
	for _, group := range groups {
		if len(group.Duplicates) > 0 {
			duplicates = append(duplicates, group)
		}
	}
	return duplicates
}

func openCourseRepository(ctx context.Context, cfg *config.Config) (domainrepo.CourseRepository, func(), error) {
	if cfg.StoreDriver == config.StoreFirestore {
		opts, err := firebase.ClientOptions(cfg)
		if err != nil {
			return nil, nil, err
		}
		client, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewFirestoreCourseRepository(client), func() { client.Close() }, nil
	}

	db, err := database.Open(cfg.StoreDriver, database.DSN(cfg), false)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	return repository.NewGormCourseRepository(db), closeDB, nil
}
