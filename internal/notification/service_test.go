package notification_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/workforce-management/internal"
	userDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/user"
	"github.com/frahmantamala/workforce-management/internal/initiative"
	"github.com/frahmantamala/workforce-management/internal/notification"
	"github.com/frahmantamala/workforce-management/internal/project"
)

func TestNotificationEngine(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Notification Engine Suite")
}

func ptr[T any](v T) *T { return &v }

var _ = Describe("Engine", func() {
	var (
		engine *notification.Engine
		now    time.Time
		snap   *notification.StoreSnapshot
	)

	BeforeEach(func() {
		engine = notification.NewEngine(internal.NotificationsConfig{})
		now = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
		snap = &notification.StoreSnapshot{
			Now: now,
			Users: []*userDatamodel.User{
				{ID: 1, Name: "Admin", Role: userDatamodel.RoleAdmin, WorkloadCap: 100, OverBeyondCap: 20, IsActive: true},
				{ID: 2, Name: "Manager", Role: userDatamodel.RoleManager, WorkloadCap: 100, OverBeyondCap: 20, IsActive: true},
				{ID: 3, Name: "Dev", Role: userDatamodel.RoleEmployee, WorkloadCap: 100, OverBeyondCap: 20, IsActive: true},
			},
		}
	})

	typesFor := func(recipientID int64) []string {
		var out []string
		for _, c := range engine.Candidates(snap) {
			if c.RecipientID == recipientID {
				out = append(out, c.Type)
			}
		}
		return out
	}

	Describe("milestone rules", func() {
		It("should notify the manager about overdue milestones with high priority", func() {
			snap.Projects = []*project.Project{{
				ID: 10, Name: "Alpha", Status: project.StatusActive, ManagerID: 2,
				Assignments: []project.Assignment{{EmployeeID: 3, InvolvementPercentage: 50}},
				Milestones: []project.Milestone{
					{ID: 1, Title: "Launch", DueDate: now.AddDate(0, 0, -2)},
				},
			}}

			candidates := engine.Candidates(snap)

			Expect(candidates).To(HaveLen(1))
			Expect(candidates[0].Type).To(Equal(notification.TypeMilestoneOverdue))
			Expect(candidates[0].Priority).To(Equal(notification.PriorityHigh))
			Expect(candidates[0].RecipientID).To(Equal(int64(2)))
		})

		It("should warn about milestones due inside the upcoming window", func() {
			snap.Projects = []*project.Project{{
				ID: 10, Name: "Alpha", Status: project.StatusActive, ManagerID: 2,
				Assignments: []project.Assignment{{EmployeeID: 3, InvolvementPercentage: 50}},
				Milestones: []project.Milestone{
					{ID: 1, Title: "Soon", DueDate: now.AddDate(0, 0, 5)},
					{ID: 2, Title: "Far", DueDate: now.AddDate(0, 0, 30)},
					{ID: 3, Title: "Done", DueDate: now.AddDate(0, 0, 3), Completed: true},
				},
			}}

			candidates := engine.Candidates(snap)

			Expect(candidates).To(HaveLen(1))
			Expect(candidates[0].Type).To(Equal(notification.TypeMilestoneUpcoming))
			Expect(candidates[0].Priority).To(Equal(notification.PriorityMedium))
		})

		It("should stay silent for completed or cancelled projects", func() {
			snap.Projects = []*project.Project{{
				ID: 10, Name: "Alpha", Status: project.StatusCompleted, ManagerID: 2,
				Milestones: []project.Milestone{
					{ID: 1, Title: "Launch", DueDate: now.AddDate(0, 0, -2)},
				},
			}}

			Expect(typesFor(2)).To(BeEmpty())
		})
	})

	Describe("capacity rules", func() {
		It("should flag a combined workload above 100% as critical to the employee", func() {
			snap.Projects = []*project.Project{{
				ID: 10, Status: project.StatusActive, ManagerID: 2,
				Assignments: []project.Assignment{{EmployeeID: 3, InvolvementPercentage: 95}},
			}}
			snap.Initiatives = []*initiative.Initiative{
				{ID: 1, AssignedTo: ptr(int64(3)), Status: initiative.StatusActive, WorkloadPercentage: 10},
			}

			Expect(typesFor(3)).To(ContainElement(notification.TypeWorkloadExceeded))
			for _, c := range engine.Candidates(snap) {
				if c.Type == notification.TypeWorkloadExceeded {
					Expect(c.Priority).To(Equal(notification.PriorityCritical))
					Expect(c.RecipientID).To(Equal(int64(3)))
				}
			}
		})

		It("should not flag a workload at exactly 100%", func() {
			snap.Projects = []*project.Project{{
				ID: 10, Status: project.StatusActive, ManagerID: 2,
				Assignments: []project.Assignment{{EmployeeID: 3, InvolvementPercentage: 100}},
			}}

			Expect(typesFor(3)).ToNot(ContainElement(notification.TypeWorkloadExceeded))
		})

		It("should warn when over-beyond work is above 15% but within the cap", func() {
			snap.Initiatives = []*initiative.Initiative{
				{ID: 1, AssignedTo: ptr(int64(3)), Status: initiative.StatusActive, WorkloadPercentage: 18},
			}

			types := typesFor(3)
			Expect(types).To(ContainElement(notification.TypeOverBeyondNearCap))
			Expect(types).ToNot(ContainElement(notification.TypeOverBeyondExceeded))
		})

		It("should escalate to the exceeded alert past the cap, replacing the near-cap warning", func() {
			snap.Initiatives = []*initiative.Initiative{
				{ID: 1, AssignedTo: ptr(int64(3)), Status: initiative.StatusActive, WorkloadPercentage: 25},
			}

			types := typesFor(3)
			Expect(types).To(ContainElement(notification.TypeOverBeyondExceeded))
			Expect(types).ToNot(ContainElement(notification.TypeOverBeyondNearCap))
		})

		It("should ignore pending initiatives", func() {
			snap.Initiatives = []*initiative.Initiative{
				{ID: 1, AssignedTo: ptr(int64(3)), Status: initiative.StatusPending, WorkloadPercentage: 25},
			}

			Expect(typesFor(3)).To(BeEmpty())
		})
	})

	Describe("project rules", func() {
		It("should flag an active project without assignments", func() {
			snap.Projects = []*project.Project{{
				ID: 10, Name: "Ghost", Status: project.StatusActive, ManagerID: 2,
			}}

			candidates := engine.Candidates(snap)

			Expect(candidates).To(HaveLen(1))
			Expect(candidates[0].Type).To(Equal(notification.TypeProjectUnresourced))
			Expect(candidates[0].Priority).To(Equal(notification.PriorityHigh))
		})

		It("should raise a high budget alert above 80% of estimated hours", func() {
			snap.Projects = []*project.Project{{
				ID: 10, Name: "Alpha", Status: project.StatusActive, ManagerID: 2,
				Assignments:    []project.Assignment{{EmployeeID: 3, InvolvementPercentage: 10}},
				EstimatedHours: ptr(100.0), ActualHours: ptr(85.0),
			}}

			for _, c := range engine.Candidates(snap) {
				if c.Type == notification.TypeBudgetAlert {
					Expect(c.Priority).To(Equal(notification.PriorityHigh))
					return
				}
			}
			Fail("expected a budget alert")
		})

		It("should escalate the budget alert to critical past 100% with the same identity", func() {
			p := &project.Project{
				ID: 10, Name: "Alpha", Status: project.StatusActive, ManagerID: 2,
				Assignments:    []project.Assignment{{EmployeeID: 3, InvolvementPercentage: 10}},
				EstimatedHours: ptr(100.0), ActualHours: ptr(85.0),
			}
			snap.Projects = []*project.Project{p}

			var before *notification.Notification
			for _, c := range engine.Candidates(snap) {
				if c.Type == notification.TypeBudgetAlert {
					before = c
				}
			}
			Expect(before).ToNot(BeNil())

			p.ActualHours = ptr(120.0)
			var after *notification.Notification
			for _, c := range engine.Candidates(snap) {
				if c.Type == notification.TypeBudgetAlert {
					after = c
				}
			}
			Expect(after).ToNot(BeNil())
			Expect(after.Priority).To(Equal(notification.PriorityCritical))
			Expect(after.ID).To(Equal(before.ID))
		})

		It("should skip the budget alert when hours are not tracked", func() {
			snap.Projects = []*project.Project{{
				ID: 10, Name: "Alpha", Status: project.StatusActive, ManagerID: 2,
				Assignments: []project.Assignment{{EmployeeID: 3, InvolvementPercentage: 10}},
				ActualHours: ptr(500.0),
			}}

			Expect(typesFor(2)).ToNot(ContainElement(notification.TypeBudgetAlert))
		})
	})

	Describe("initiative rules", func() {
		It("should notify the assignee when a deadline approaches", func() {
			snap.Initiatives = []*initiative.Initiative{{
				ID: 1, Title: "Workshop", CreatedBy: 2, AssignedTo: ptr(int64(3)),
				Status: initiative.StatusActive, WorkloadPercentage: 5,
				DueDate: ptr(now.AddDate(0, 0, 3)),
			}}

			candidates := engine.Candidates(snap)

			Expect(candidates).To(HaveLen(1))
			Expect(candidates[0].Type).To(Equal(notification.TypeInitiativeDeadline))
			Expect(candidates[0].RecipientID).To(Equal(int64(3)))
		})

		It("should fall back to the creator when unassigned", func() {
			snap.Initiatives = []*initiative.Initiative{{
				ID: 1, Title: "Workshop", CreatedBy: 2,
				Status: initiative.StatusPending, WorkloadPercentage: 5,
				DueDate: ptr(now.AddDate(0, 0, 3)),
			}}

			candidates := engine.Candidates(snap)

			Expect(candidates).To(HaveLen(1))
			Expect(candidates[0].RecipientID).To(Equal(int64(2)))
		})
	})

	Describe("recipient filtering", func() {
		It("should never address administrators", func() {
			snap.Projects = []*project.Project{{
				ID: 10, Name: "Ghost", Status: project.StatusActive, ManagerID: 1,
			}}

			Expect(engine.Candidates(snap)).To(BeEmpty())
		})

		It("should drop candidates for unknown recipients", func() {
			snap.Projects = []*project.Project{{
				ID: 10, Name: "Ghost", Status: project.StatusActive, ManagerID: 999,
			}}

			Expect(engine.Candidates(snap)).To(BeEmpty())
		})
	})

	Describe("Identity", func() {
		It("should be stable for the same rule and subject", func() {
			Expect(notification.Identity("milestone_overdue", 42)).
				To(Equal(notification.Identity("milestone_overdue", 42)))
		})

		It("should differ across rules and subjects", func() {
			a := notification.Identity("milestone_overdue", 42)
			b := notification.Identity("milestone_upcoming", 42)
			c := notification.Identity("milestone_overdue", 43)
			Expect(a).ToNot(Equal(b))
			Expect(a).ToNot(Equal(c))
		})
	})
})

var _ = Describe("Reconcile", func() {
	var now time.Time

	BeforeEach(func() {
		now = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	})

	candidate := func(id string) *notification.Notification {
		return &notification.Notification{
			ID: id, RecipientID: 3, Type: notification.TypeMilestoneOverdue,
			Priority: notification.PriorityHigh, Title: "Milestone overdue",
		}
	}

	It("should materialize new candidates as unread with the scan timestamp", func() {
		next, created := notification.Reconcile(nil, []*notification.Notification{candidate("a")}, now)

		Expect(next).To(HaveLen(1))
		Expect(created).To(HaveLen(1))
		Expect(next[0].Read).To(BeFalse())
		Expect(next[0].CreatedAt).To(Equal(now))
	})

	It("should be idempotent: a second pass over its own output creates nothing", func() {
		first, created := notification.Reconcile(nil, []*notification.Notification{candidate("a"), candidate("b")}, now)
		Expect(created).To(HaveLen(2))

		second, created := notification.Reconcile(first, []*notification.Notification{candidate("a"), candidate("b")}, now.Add(time.Hour))

		Expect(created).To(BeEmpty())
		Expect(second).To(HaveLen(2))
		Expect(second[0].CreatedAt).To(Equal(now))
	})

	It("should keep a still-true entry as-is, preserving its read flag", func() {
		prev := candidate("a")
		prev.Read = true
		prev.CreatedAt = now.Add(-24 * time.Hour)

		next, created := notification.Reconcile(
			[]*notification.Notification{prev},
			[]*notification.Notification{candidate("a")}, now)

		Expect(created).To(BeEmpty())
		Expect(next).To(HaveLen(1))
		Expect(next[0].Read).To(BeTrue())
		Expect(next[0].CreatedAt).To(Equal(now.Add(-24 * time.Hour)))
	})

	It("should drop an unread entry whose condition cleared", func() {
		prev := candidate("a")
		prev.CreatedAt = now.Add(-time.Hour)

		next, created := notification.Reconcile([]*notification.Notification{prev}, nil, now)

		Expect(next).To(BeEmpty())
		Expect(created).To(BeEmpty())
	})

	It("should keep a read entry even after its condition cleared", func() {
		prev := candidate("a")
		prev.Read = true
		prev.CreatedAt = now.Add(-time.Hour)

		next, _ := notification.Reconcile([]*notification.Notification{prev}, nil, now)

		Expect(next).To(HaveLen(1))
		Expect(next[0].ID).To(Equal("a"))
	})

	It("should surface a cleared-then-true-again condition as unread once more", func() {
		prev := candidate("a")
		prev.Read = true
		prev.CreatedAt = now.Add(-48 * time.Hour)

		// Condition clears; the read entry is kept as history.
		afterClear, _ := notification.Reconcile([]*notification.Notification{prev}, nil, now.Add(-time.Hour))
		Expect(afterClear).To(HaveLen(1))

		// It comes true again: the kept read entry still matches by id, so
		// nothing new materializes until the consumer deletes the old one.
		again, created := notification.Reconcile(afterClear, []*notification.Notification{candidate("a")}, now)
		Expect(created).To(BeEmpty())
		Expect(again).To(HaveLen(1))

		// After deletion the next true evaluation fires fresh.
		final, created := notification.Reconcile(nil, []*notification.Notification{candidate("a")}, now)
		Expect(created).To(HaveLen(1))
		Expect(final[0].Read).To(BeFalse())
	})

	It("should order the feed newest first with id as tie-break", func() {
		older := candidate("z")
		older.Read = true
		older.CreatedAt = now.Add(-time.Hour)

		next, _ := notification.Reconcile(
			[]*notification.Notification{older},
			[]*notification.Notification{candidate("b"), candidate("a")}, now)

		Expect(next).To(HaveLen(3))
		Expect(next[0].ID).To(Equal("a"))
		Expect(next[1].ID).To(Equal("b"))
		Expect(next[2].ID).To(Equal("z"))
	})
})
