package services

import (
	"errors"
	"fmt"
	"time"

	"dzemat-platform/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type TaskService struct {
	DB     *gorm.DB
	Logger *zap.Logger
	Points *PointsService
}

func NewTaskService(db *gorm.DB, logger *zap.Logger, points *PointsService) *TaskService {
	return &TaskService{DB: db, Logger: logger, Points: points}
}

type TaskInput struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description" validate:"max=2000"`
	PointsValue int64      `json:"points_value" validate:"min=0,max=10000"`
	WorkGroupID *string    `json:"work_group_id"`
	AssigneeID  *string    `json:"assignee_id"`
	DueAt       *time.Time `json:"due_at"`
}

func (s *TaskService) Create(tenantID string, in TaskInput) (*models.Task, error) {
	if in.WorkGroupID != nil {
		var count int64
		s.DB.Model(&models.WorkGroup{}).
			Where("tenant_id = ? AND id = ?", tenantID, *in.WorkGroupID).
			Count(&count)
		if count == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	task := models.Task{
		ID:          uuid.NewString(),
		TenantID:    tenantID,
		WorkGroupID: in.WorkGroupID,
		Title:       in.Title,
		Description: in.Description,
		PointsValue: in.PointsValue,
		Status:      models.TaskOpen,
		AssigneeID:  in.AssigneeID,
		DueAt:       in.DueAt,
	}
	if err := s.DB.Create(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskService) List(tenantID string, status string) ([]models.Task, error) {
	q := s.DB.Where("tenant_id = ?", tenantID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var tasks []models.Task
	err := q.Order("created_at DESC").Find(&tasks).Error
	return tasks, err
}

func (s *TaskService) Get(tenantID, taskID string) (*models.Task, error) {
	var task models.Task
	if err := s.DB.Where("tenant_id = ? AND id = ?", tenantID, taskID).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// Submit marks the caller's task as done and awaiting admin approval.
func (s *TaskService) Submit(tenantID, taskID, userID string) (*models.Task, error) {
	var task models.Task
	if err := s.DB.Where("tenant_id = ? AND id = ?", tenantID, taskID).First(&task).Error; err != nil {
		return nil, err
	}
	if task.Status == models.TaskApproved {
		return nil, errors.New("task is already approved")
	}
	if task.AssigneeID == nil {
		task.AssigneeID = &userID
	} else if *task.AssigneeID != userID {
		return nil, errors.New("task is assigned to someone else")
	}
	task.Status = models.TaskSubmitted
	if err := s.DB.Save(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// Approve is the point-earning transition: it flips the task to approved,
// appends the activity entry and re-evaluates badges, all in one
// transaction. Approving an already-approved task is a no-op.
func (s *TaskService) Approve(tenantID, taskID, approverID string) (*models.Task, error) {
	settings, err := s.Points.EnsureSettings(tenantID)
	if err != nil {
		return nil, err
	}

	var task models.Task
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ? AND id = ?", tenantID, taskID).First(&task).Error; err != nil {
			return err
		}
		if task.Status == models.TaskApproved {
			return nil
		}
		if task.AssigneeID == nil {
			return errors.New("task has no assignee to award")
		}

		now := time.Now()
		task.Status = models.TaskApproved
		task.ApprovedByID = &approverID
		task.ApprovedAt = &now
		if err := tx.Save(&task).Error; err != nil {
			return err
		}

		points := task.PointsValue
		if points == 0 {
			points = settings.PointsPerTask
		}
		desc := fmt.Sprintf("Task completed: %s", task.Title)
		if err := s.Points.appendTx(tx, tenantID, *task.AssigneeID, models.ActivityTaskApproved, points, desc); err != nil {
			return err
		}
		_, _, err := s.Points.Badges.evaluateTx(tx, tenantID, *task.AssigneeID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Reject sends a submitted task back without touching the log.
func (s *TaskService) Reject(tenantID, taskID string) (*models.Task, error) {
	var task models.Task
	if err := s.DB.Where("tenant_id = ? AND id = ?", tenantID, taskID).First(&task).Error; err != nil {
		return nil, err
	}
	if task.Status == models.TaskApproved {
		return nil, errors.New("approved tasks cannot be rejected; record a reversal instead")
	}
	task.Status = models.TaskRejected
	if err := s.DB.Save(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// --- Work groups ---

func (s *TaskService) CreateWorkGroup(tenantID, name, description string) (*models.WorkGroup, error) {
	wg := models.WorkGroup{
		ID:          uuid.NewString(),
		TenantID:    tenantID,
		Name:        name,
		Description: description,
	}
	if err := s.DB.Create(&wg).Error; err != nil {
		return nil, err
	}
	return &wg, nil
}

func (s *TaskService) ListWorkGroups(tenantID string) ([]models.WorkGroup, error) {
	var groups []models.WorkGroup
	err := s.DB.Where("tenant_id = ?", tenantID).Order("name ASC").Find(&groups).Error
	return groups, err
}

// JoinWorkGroup is idempotent: joining twice leaves one membership row.
func (s *TaskService) JoinWorkGroup(tenantID, groupID, userID string) error {
	var group models.WorkGroup
	if err := s.DB.Where("tenant_id = ? AND id = ?", tenantID, groupID).First(&group).Error; err != nil {
		return err
	}
	var count int64
	s.DB.Model(&models.WorkGroupMember{}).
		Where("tenant_id = ? AND work_group_id = ? AND user_id = ?", tenantID, groupID, userID).
		Count(&count)
	if count > 0 {
		return nil
	}
	member := models.WorkGroupMember{
		ID:          uuid.NewString(),
		TenantID:    tenantID,
		WorkGroupID: groupID,
		UserID:      userID,
	}
	return s.DB.Create(&member).Error
}
