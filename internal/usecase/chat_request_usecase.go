package usecase

import (
	"context"
	"sort"
	"strings"

	"skillswap/internal/domain/entity"
	"skillswap/internal/domain/repository"
	"skillswap/pkg/errors"
	"skillswap/pkg/logger"
)

const (
	ActionAccept = "accept"
	ActionReject = "reject"
)

type ChatRequestUseCase struct {
	requestRepo repository.ChatRequestRepository
	userRepo    repository.UserRepository
	courseRepo  repository.CourseRepository
	notifier    Notifier
}

func NewChatRequestUseCase(
	requestRepo repository.ChatRequestRepository,
	userRepo repository.UserRepository,
	courseRepo repository.CourseRepository,
	notifier Notifier,
) *ChatRequestUseCase {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &ChatRequestUseCase{
		requestRepo: requestRepo,
		userRepo:    userRepo,
		courseRepo:  courseRepo,
		notifier:    notifier,
	}
}

type CreateChatRequestInput struct {
	ReceiverID string
	CourseID   string
	Message    string
}

// Create opens a pending request from sender to receiver about a course.
// A second request for the same triple fails with CONFLICT and carries the
// existing request so the caller can show it.
func (uc *ChatRequestUseCase) Create(ctx context.Context, senderID string, input CreateChatRequestInput) (*ChatRequestView, error) {
	if senderID == input.ReceiverID {
		return nil, errors.Validation("You cannot send a chat request to yourself", nil)
	}

	receiver, err := uc.userRepo.GetByID(ctx, input.ReceiverID)
	if err != nil {
		if errors.Is(err, errors.CodeNotFound) {
			return nil, errors.NotFound("Receiver", err)
		}
		return nil, err
	}

	course, err := uc.courseRepo.GetByID(ctx, input.CourseID)
	if err != nil {
		return nil, err
	}

	if existing, err := uc.requestRepo.GetByTriple(ctx, senderID, input.ReceiverID, input.CourseID); err == nil {
		return nil, uc.conflict(ctx, existing)
	} else if !errors.Is(err, errors.CodeNotFound) {
		return nil, err
	}

	message := strings.TrimSpace(input.Message)
	if message == "" {
		message = "I'd like to learn about " + course.Title
	}

	request := &entity.ChatRequest{
		SenderID:   senderID,
		ReceiverID: receiver.ID,
		CourseID:   course.ID,
		Status:     entity.ChatRequestPending,
		Message:    message,
	}
	if err := uc.requestRepo.Create(ctx, request); err != nil {
		if errors.Is(err, errors.CodeConflict) {
			// Lost a race with a concurrent create for the same triple.
			if existing, getErr := uc.requestRepo.GetByTriple(ctx, senderID, input.ReceiverID, input.CourseID); getErr == nil {
				return nil, uc.conflict(ctx, existing)
			}
		}
		return nil, err
	}

	views, err := uc.populate(ctx, []*entity.ChatRequest{request})
	if err != nil {
		return nil, err
	}
	view := views[0]

	if !uc.notifier.NotifyUser(request.ReceiverID, EventChatRequest, view) {
		logger.Debug("Receiver %s offline, chat request %s not pushed", request.ReceiverID, request.ID)
	}

	logger.Info("Chat request %s created by %s", request.ID, senderID)
	return view, nil
}

// Respond accepts or rejects a pending request. Only the receiver may
// respond, and only once: decided requests fail with INVALID_STATE.
func (uc *ChatRequestUseCase) Respond(ctx context.Context, actingUserID, requestID, action string) (*ChatRequestView, error) {
	var to entity.ChatRequestStatus
	switch action {
	case ActionAccept:
		to = entity.ChatRequestAccepted
	case ActionReject:
		to = entity.ChatRequestRejected
	default:
		return nil, errors.Validation("Action must be accept or reject", nil)
	}

	request, err := uc.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.ReceiverID != actingUserID {
		return nil, errors.Forbidden("Only the receiver can respond to this chat request", nil)
	}
	if !request.IsPending() {
		return nil, errors.InvalidState("Chat request has already been " + string(request.Status))
	}

	updated, err := uc.requestRepo.Transition(ctx, requestID, to)
	if err != nil {
		return nil, err
	}

	views, err := uc.populate(ctx, []*entity.ChatRequest{updated})
	if err != nil {
		return nil, err
	}
	view := views[0]

	uc.notifier.NotifyUser(updated.SenderID, EventRequestResponded, view)

	logger.Info("Chat request %s %s by %s", requestID, updated.Status, actingUserID)
	return view, nil
}

func (uc *ChatRequestUseCase) PendingReceived(ctx context.Context, userID string) ([]*ChatRequestView, error) {
	requests, err := uc.requestRepo.ListPendingForReceiver(ctx, userID)
	if err != nil {
		return nil, err
	}
	sortByCreatedDesc(requests)
	return uc.populate(ctx, requests)
}

func (uc *ChatRequestUseCase) SentBy(ctx context.Context, userID string) ([]*ChatRequestView, error) {
	requests, err := uc.requestRepo.ListBySender(ctx, userID)
	if err != nil {
		return nil, err
	}
	sortByCreatedDesc(requests)
	return uc.populate(ctx, requests)
}

// AcceptedFor lists the caller's open chats, most recently accepted first.
func (uc *ChatRequestUseCase) AcceptedFor(ctx context.Context, userID string) ([]*ChatRequestView, error) {
	requests, err := uc.requestRepo.ListAcceptedFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].UpdatedAt.After(requests[j].UpdatedAt)
	})
	return uc.populate(ctx, requests)
}

func (uc *ChatRequestUseCase) conflict(ctx context.Context, existing *entity.ChatRequest) error {
	views, err := uc.populate(ctx, []*entity.ChatRequest{existing})
	if err != nil {
		return err
	}
	return errors.ConflictWith("Chat request already exists", views[0])
}

// populate resolves users and courses with one batched lookup each.
func (uc *ChatRequestUseCase) populate(ctx context.Context, requests []*entity.ChatRequest) ([]*ChatRequestView, error) {
	views := make([]*ChatRequestView, 0, len(requests))
	if len(requests) == 0 {
		return views, nil
	}

	userIDs := make([]string, 0, len(requests)*2)
	courseIDs := make([]string, 0, len(requests))
	for _, r := range requests {
		userIDs = append(userIDs, r.SenderID, r.ReceiverID)
		courseIDs = append(courseIDs, r.CourseID)
	}

	users, err := uc.userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	courses, err := uc.courseRepo.GetByIDs(ctx, courseIDs)
	if err != nil {
		return nil, err
	}

	for _, r := range requests {
		views = append(views, &ChatRequestView{
			ChatRequest: r,
			Sender:      summarizeUser(users[r.SenderID], true),
			Receiver:    summarizeUser(users[r.ReceiverID], true),
			Course:      summarizeCourse(courses[r.CourseID]),
		})
	}
	return views, nil
}

func sortByCreatedDesc(requests []*entity.ChatRequest) {
	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})
}
